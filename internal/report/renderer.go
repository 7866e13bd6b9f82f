package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
)

// Renderer turns an assembled performance report into a stored document and
// returns its path. Rendering is best-effort: callers treat a render failure
// as "analysis succeeded, report unavailable" and never fail the request.
type Renderer interface {
	Render(ctx context.Context, rep *PerformanceReport) (string, error)
}

// HTTPRenderer delegates document rendering to an external service.
type HTTPRenderer struct {
	endpoint string
	path     string
	timeout  time.Duration
	http     *httpclient.Client
}

// NewHTTPRenderer builds a renderer client from settings.
func NewHTTPRenderer(settings *conf.RendererSettings, hc *httpclient.Client) *HTTPRenderer {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &HTTPRenderer{
		endpoint: settings.Endpoint,
		path:     settings.Path,
		timeout:  time.Duration(settings.Timeout) * time.Second,
		http:     hc,
	}
}

type renderRequest struct {
	Document string             `json:"document"`
	Report   *PerformanceReport `json:"report"`
}

type renderResponse struct {
	Path string `json:"path"`
}

// Render posts the report to the renderer service and returns the stored
// document path.
func (r *HTTPRenderer) Render(ctx context.Context, rep *PerformanceReport) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	document := filepath.Join(r.path, DocumentName(rep.UserID, rep.Timestamp))
	resp, err := r.http.PostJSON(ctx, r.endpoint, renderRequest{Document: document, Report: rep})
	if err != nil {
		return "", errors.New(fmt.Errorf("render request failed: %w", err)).
			Component("report").
			Category(errors.CategoryReportRender).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("renderer returned status %d", resp.StatusCode).
			Component("report").
			Category(errors.CategoryReportRender).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.New(fmt.Errorf("decoding renderer response: %w", err)).
			Component("report").
			Category(errors.CategoryReportRender).
			Build()
	}
	if out.Path == "" {
		// Some renderer versions echo nothing, the requested path still holds.
		return document, nil
	}
	return out.Path, nil
}
