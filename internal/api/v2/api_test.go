package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarscan/solarscan-go/internal/analysis"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/detector"
	"github.com/solarscan/solarscan-go/internal/performance"
	"github.com/solarscan/solarscan-go/internal/report"
)

type stubFetcher struct{}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return []byte{0x01}, nil
}

type stubDetector struct {
	out   *detector.Output
	calls int
}

func (d *stubDetector) Detect(ctx context.Context, image []byte) (*detector.Output, error) {
	d.calls++
	return d.out, nil
}

type stubPredictor struct {
	predicted float64
}

func (p *stubPredictor) Predict(ctx context.Context, features performance.Features) (float64, error) {
	return p.predicted, nil
}

func testSettings() *conf.Settings {
	return &conf.Settings{
		Analysis: conf.AnalysisSettings{
			Thresholds: conf.ThresholdSettings{Critical: 10, Urgent: 30, Contamination: 10},
			Costs:      conf.CostSettings{RepairPerPoint: 1000, Replacement: 350000},
			MaxLoss:    95,
		},
		Performance: conf.PerformanceSettings{
			NormalRatio:       0.9,
			FairRatio:         0.7,
			EndOfLifeFraction: 0.8,
			CeilingMonths:     300,
			CostPerWatt:       2000,
		},
		Version: "1.2.3",
	}
}

// newTestController wires a controller around stub collaborators.
func newTestController(det detector.Interface) (*Controller, *echo.Echo) {
	settings := testSettings()
	svc := analysis.New(settings, &stubFetcher{}, det, &stubPredictor{predicted: 454.11})
	e := echo.New()
	c := New(e, settings, svc, det, nil)
	return c, e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})
	rec := serve(e, http.MethodGet, "/api/v2/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.DetectorLoaded)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
}

func TestHealthDegradedWithoutDetector(t *testing.T) {
	t.Parallel()

	_, e := newTestController(nil)
	rec := serve(e, http.MethodGet, "/api/v2/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.DetectorLoaded)
}

func TestAnalyzeDamageEndpoint(t *testing.T) {
	t.Parallel()

	det := &stubDetector{out: &detector.Output{
		Detections: []detection.Detection{
			{ClassName: "Defective", Confidence: 0.95, AreaPixels: 259932},
		},
	}}
	_, e := newTestController(det)

	rec := serve(e, http.MethodPost, "/api/v2/analysis/damage",
		`{"panel_id": 7, "user_id": 42, "image_url": "http://storage/panel.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep report.DamageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 7, rep.PanelID)
	assert.Equal(t, 42, rep.UserID)
	assert.Equal(t, 100.0, rep.DamageAnalysis.OverallDamagePercentage)
	assert.Equal(t, "교체", rep.BusinessAssessment.Decision)
}

func TestAnalyzeDamageValidation(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})

	rec := serve(e, http.MethodPost, "/api/v2/analysis/damage", `{"panel_id": 7}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Len(t, resp.CorrelationID, 8)
}

// Repeated requests for the same image URL are served from the cache without
// re-running the pipeline.
func TestAnalyzeDamageCachesByImageURL(t *testing.T) {
	t.Parallel()

	det := &stubDetector{out: &detector.Output{
		Detections: []detection.Detection{
			{ClassName: "Dusty", Confidence: 0.88, AreaPixels: 45000},
		},
	}}
	_, e := newTestController(det)

	body := `{"panel_id": 7, "user_id": 42, "image_url": "http://storage/panel.jpg"}`
	require.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/api/v2/analysis/damage", body).Code)
	require.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/api/v2/analysis/damage", body).Code)
	assert.Equal(t, 1, det.calls)

	// A different panel claiming the same URL bypasses the cached entry.
	other := `{"panel_id": 9, "user_id": 42, "image_url": "http://storage/panel.jpg"}`
	require.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/api/v2/analysis/damage", other).Code)
	assert.Equal(t, 2, det.calls)
}

func TestAnalyzeDamageBatchEndpoint(t *testing.T) {
	t.Parallel()

	det := &stubDetector{out: &detector.Output{
		Detections: []detection.Detection{
			{ClassName: "Dusty", Confidence: 0.88, AreaPixels: 45000},
		},
		ImageWidth:  1920,
		ImageHeight: 1080,
	}}
	_, e := newTestController(det)

	rec := serve(e, http.MethodPost, "/api/v2/analysis/damage/batch", `{
		"items": [
			{"panel_id": 1, "user_id": 42, "image_url": "http://storage/a.jpg"},
			{"panel_id": 2, "user_id": 42, "image_url": "http://storage/b.jpg"}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep report.BatchDamageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Len(t, rep.Reports, 2)
	assert.Empty(t, rep.Failures)
	assert.Equal(t, 2, rep.Summary.TotalAnalyzedPanels)
	assert.Equal(t, "GOOD", rep.Summary.OverallFleetStatus)
}

func TestAnalyzeDamageBatchRejectsEmptyBody(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})

	rec := serve(e, http.MethodPost, "/api/v2/analysis/damage/batch", `{"items": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzePerformanceEndpoint(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})

	rec := serve(e, http.MethodPost, "/api/v2/analysis/performance", `{
		"panel_id": 7,
		"user_id": 42,
		"panel": {
			"model_name": "Q.PEAK DUO-G9",
			"pmp_rated_w": 400,
			"annual_degradation_rate": 0.005,
			"lat": 37.56,
			"installed_at": "2020-01-01",
			"installed_angle": 30,
			"installed_direction": "South"
		},
		"environment": {
			"temp": [20, 22],
			"humidity": [60, 65],
			"windspeed": [1.5, 2.0],
			"sunshine": [5.0, 6.0]
		},
		"actual_generation": 310
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep report.PerformanceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 7, rep.PanelID)
	assert.InDelta(t, 0.683, rep.Result.PerformanceRatio, 0.0005)
	assert.Equal(t, "불량", rep.Result.Status)
}

func TestHistoryWithoutStore(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})

	rec := serve(e, http.MethodGet, "/api/v2/analysis/damage/history/7", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v2/analysis/performance/history/7", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHistoryRejectsBadPanelID(t *testing.T) {
	t.Parallel()

	_, e := newTestController(&stubDetector{out: &detector.Output{}})

	rec := serve(e, http.MethodGet, "/api/v2/analysis/damage/history/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
