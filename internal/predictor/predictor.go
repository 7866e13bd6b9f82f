// Package predictor is the boundary to the external ensemble model that
// estimates expected power generation from panel and environment features.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/httpclient"
	"github.com/solarscan/solarscan-go/internal/performance"
)

// Interface is the generation prediction collaborator boundary.
type Interface interface {
	Predict(ctx context.Context, features performance.Features) (float64, error)
}

// Client calls the ensemble prediction service over HTTP.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *httpclient.Client
}

// NewClient builds a predictor client from settings.
func NewClient(settings *conf.PredictorSettings, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &Client{
		endpoint: settings.Endpoint,
		timeout:  time.Duration(settings.Timeout) * time.Second,
		http:     hc,
	}
}

type predictResponse struct {
	PredictedGeneration float64 `json:"predicted_generation"`
}

// Predict posts the feature vector and returns the predicted generation.
// The model service owns feature encoding; this client only carries values.
func (c *Client) Predict(ctx context.Context, features performance.Features) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.endpoint, features)
	if err != nil {
		category := errors.CategoryNetwork
		if ctx.Err() != nil {
			category = errors.CategoryTimeout
		}
		return 0, errors.New(fmt.Errorf("prediction request failed: %w", err)).
			Component("predictor").
			Category(category).
			Timing("predict", time.Since(start)).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return 0, errors.Newf("prediction model is not loaded").
			Component("predictor").
			Category(errors.CategoryModelLoad).
			Build()
	case resp.StatusCode != http.StatusOK:
		return 0, errors.Newf("prediction service returned status %d", resp.StatusCode).
			Component("predictor").
			Category(errors.CategoryPrediction).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.New(fmt.Errorf("decoding prediction response: %w", err)).
			Component("predictor").
			Category(errors.CategoryPrediction).
			Build()
	}
	return out.PredictedGeneration, nil
}
