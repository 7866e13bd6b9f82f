// Package detector is the boundary to the external segmentation model that
// finds damage regions in panel images. The model is an opaque collaborator;
// this package only translates its transport into detections or typed
// failures.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
)

// Interface is the detection collaborator boundary.
type Interface interface {
	// Detect runs the segmentation model on the image and returns the raw
	// detections. Fails with a model-load category when the model service is
	// unavailable and an inference category when prediction itself fails.
	Detect(ctx context.Context, image []byte) (*Output, error)
}

// Output is the raw model response for one image.
type Output struct {
	Detections   []detection.Detection `json:"detections"`
	ImageWidth   int                   `json:"image_width"`
	ImageHeight  int                   `json:"image_height"`
	ModelVersion string                `json:"model_version"`
}

// TotalImageArea returns the image area in pixels, or 0 when the model did
// not report the image dimensions.
func (o *Output) TotalImageArea() int {
	if o.ImageWidth <= 0 || o.ImageHeight <= 0 {
		return 0
	}
	return o.ImageWidth * o.ImageHeight
}

// Client calls the detection model over HTTP.
type Client struct {
	endpoint      string
	minConfidence float64
	timeout       time.Duration
	http          *httpclient.Client
}

// NewClient builds a detector client from settings.
func NewClient(settings *conf.DetectorSettings, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &Client{
		endpoint:      settings.Endpoint,
		minConfidence: settings.MinConfidence,
		timeout:       time.Duration(settings.Timeout) * time.Second,
		http:          hc,
	}
}

// Detect posts the image to the model service and decodes its detections.
// Detections below the configured confidence floor are dropped at the
// boundary, matching the model's own inference threshold.
func (c *Client) Detect(ctx context.Context, image []byte) (*Output, error) {
	if len(image) == 0 {
		return nil, errors.Newf("empty image payload").
			Component("detector").
			Category(errors.CategoryValidation).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.PostRaw(ctx, c.endpoint, "application/octet-stream", image)
	if err != nil {
		category := errors.CategoryNetwork
		if ctx.Err() != nil {
			category = errors.CategoryTimeout
		}
		return nil, errors.New(fmt.Errorf("detection request failed: %w", err)).
			Component("detector").
			Category(category).
			Timing("detect", time.Since(start)).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, errors.Newf("detection model is not loaded").
			Component("detector").
			Category(errors.CategoryModelLoad).
			Build()
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("detection service returned status %d", resp.StatusCode).
			Component("detector").
			Category(errors.CategoryInference).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var out Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.New(fmt.Errorf("decoding detection response: %w", err)).
			Component("detector").
			Category(errors.CategoryInference).
			Build()
	}

	out.Detections = filterByConfidence(out.Detections, c.minConfidence)
	return &out, nil
}

func filterByConfidence(dets []detection.Detection, floor float64) []detection.Detection {
	if floor <= 0 {
		return dets
	}
	kept := dets[:0]
	for _, d := range dets {
		if d.Confidence >= floor {
			kept = append(kept, d)
		}
	}
	return kept
}
