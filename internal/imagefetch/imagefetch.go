// Package imagefetch retrieves panel images from their storage URLs. Images
// live in external object storage; the analysis pipeline only ever sees the
// downloaded bytes.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
)

// Fetcher is the image source collaborator boundary.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads images over HTTP with a size cap.
type HTTPFetcher struct {
	timeout  time.Duration
	maxBytes int64
	http     *httpclient.Client
}

// NewHTTPFetcher builds an image fetcher from settings.
func NewHTTPFetcher(settings *conf.ImageSourceSettings, hc *httpclient.Client) *HTTPFetcher {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &HTTPFetcher{
		timeout:  time.Duration(settings.Timeout) * time.Second,
		maxBytes: settings.MaxBytes,
		http:     hc,
	}
}

// Fetch downloads the image at url. Missing images and oversized payloads are
// typed failures so the caller can map them to distinct responses.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.Newf("image url is required").
			Component("imagefetch").
			Category(errors.CategoryValidation).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	resp, err := f.http.Get(ctx, url)
	if err != nil {
		category := errors.CategoryNetwork
		if ctx.Err() != nil {
			category = errors.CategoryTimeout
		}
		return nil, errors.New(fmt.Errorf("image download failed: %w", err)).
			Component("imagefetch").
			Category(category).
			Context("url", url).
			Timing("fetch", time.Since(start)).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Newf("image not found").
			Component("imagefetch").
			Category(errors.CategoryNotFound).
			Context("url", url).
			Build()
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("image source returned status %d", resp.StatusCode).
			Component("imagefetch").
			Category(errors.CategoryHTTP).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Build()
	}

	// Read one byte past the cap to distinguish at-limit from over-limit.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading image body: %w", err)).
			Component("imagefetch").
			Category(errors.CategoryNetwork).
			Context("url", url).
			Build()
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.Newf("image exceeds size limit of %d bytes", f.maxBytes).
			Component("imagefetch").
			Category(errors.CategoryValidation).
			Context("url", url).
			Build()
	}
	if len(data) == 0 {
		return nil, errors.Newf("image source returned an empty body").
			Component("imagefetch").
			Category(errors.CategoryImageFetch).
			Context("url", url).
			Build()
	}
	return data, nil
}
