package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarscan/solarscan-go/internal/assessment"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/damage"
	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/detector"
	"github.com/solarscan/solarscan-go/internal/environment"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/performance"
	"github.com/solarscan/solarscan-go/internal/report"
)

type stubFetcher struct {
	image []byte
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.image, f.err
}

type stubDetector struct {
	out *detector.Output
	err error
}

func (d *stubDetector) Detect(ctx context.Context, image []byte) (*detector.Output, error) {
	return d.out, d.err
}

type stubPredictor struct {
	predicted float64
	err       error
}

func (p *stubPredictor) Predict(ctx context.Context, features performance.Features) (float64, error) {
	return p.predicted, p.err
}

type stubRenderer struct {
	path string
	err  error
}

func (r *stubRenderer) Render(ctx context.Context, rep *report.PerformanceReport) (string, error) {
	return r.path, r.err
}

type stubStore struct {
	imageReports []*datastore.PanelImageReport
	perfRecords  []*datastore.PerformanceRecord
	saveErr      error
}

func (s *stubStore) Open() error  { return nil }
func (s *stubStore) Close() error { return nil }

func (s *stubStore) SavePanelImageReport(r *datastore.PanelImageReport) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.imageReports = append(s.imageReports, r)
	return nil
}

func (s *stubStore) SavePerformanceRecord(r *datastore.PerformanceRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.perfRecords = append(s.perfRecords, r)
	return nil
}

func (s *stubStore) GetPanelImageReports(panelID, limit int) ([]datastore.PanelImageReport, error) {
	return nil, nil
}

func (s *stubStore) GetPerformanceRecords(panelID, limit int) ([]datastore.PerformanceRecord, error) {
	return nil, nil
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
	}
}

func testPanelSpec() performance.PanelSpec {
	return performance.PanelSpec{
		ModelName:             "Q.PEAK DUO-G9",
		PMPRatedW:             400,
		AnnualDegradationRate: 0.005,
		Lat:                   37.56,
		InstalledAt:           "2020-01-01",
		InstalledAngle:        30,
		InstalledDirection:    "South",
	}
}

func testSeries() environment.Series {
	return environment.Series{
		Temperature: []float64{20, 22},
		Humidity:    []float64{60, 65},
		WindSpeed:   []float64{1.5, 2.0},
		Sunshine:    []float64{5.0, 6.0},
	}
}

func TestAnalyzeDamagePipeline(t *testing.T) {
	t.Parallel()

	det := &stubDetector{out: &detector.Output{
		Detections: []detection.Detection{
			{ClassName: "Defective", Confidence: 0.95, AreaPixels: 259932},
			{ClassName: "Physical-Damage", Confidence: 0.54, AreaPixels: 4637},
		},
	}}
	store := &stubStore{}

	svc := New(testSettings(), &stubFetcher{image: []byte{0x01}}, det, &stubPredictor{},
		WithStore(store))

	rep, err := svc.AnalyzeDamage(context.Background(), &DamageRequest{
		PanelID:  7,
		UserID:   42,
		ImageURL: "http://storage/panel.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, rep.PanelID)
	assert.Equal(t, 42, rep.UserID)
	assert.Equal(t, 100.0, rep.DamageAnalysis.OverallDamagePercentage)
	assert.Equal(t, assessment.PriorityUrgent, rep.BusinessAssessment.Priority)
	assert.Equal(t, assessment.DecisionReplacement, rep.BusinessAssessment.Decision)
	assert.True(t, rep.ImageInfo.AreaUnknown)
	assert.Equal(t, 259932, rep.ClassAreas["Defective"])
	assert.Equal(t, 4637, rep.ClassAreas["Physical-Damage"])

	require.Len(t, store.imageReports, 1)
	saved := store.imageReports[0]
	assert.Equal(t, assessment.StatusDamage, saved.Status)
	assert.Equal(t, assessment.DecisionReplacement, saved.Decision)
	assert.Equal(t, assessment.RequestStatusPending, saved.RequestStatus)
	assert.Equal(t, 100, saved.DamageDegree)
}

func TestAnalyzeDamageRejectsMissingURL(t *testing.T) {
	t.Parallel()

	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{})

	_, err := svc.AnalyzeDamage(context.Background(), &DamageRequest{PanelID: 1})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestAnalyzeDamageCollaboratorFailuresPropagate(t *testing.T) {
	t.Parallel()

	fetchErr := errors.Newf("image not found").Category(errors.CategoryNotFound).Build()
	detectErr := errors.Newf("model not loaded").Category(errors.CategoryModelLoad).Build()

	tests := []struct {
		name     string
		fetcher  *stubFetcher
		detector *stubDetector
		want     errors.ErrorCategory
	}{
		{
			name:     "fetch failure",
			fetcher:  &stubFetcher{err: fetchErr},
			detector: &stubDetector{},
			want:     errors.CategoryNotFound,
		},
		{
			name:     "detect failure",
			fetcher:  &stubFetcher{image: []byte{0x01}},
			detector: &stubDetector{err: detectErr},
			want:     errors.CategoryModelLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := New(testSettings(), tt.fetcher, tt.detector, &stubPredictor{})

			_, err := svc.AnalyzeDamage(context.Background(), &DamageRequest{ImageURL: "http://x/y.jpg"})
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.want))
		})
	}
}

func TestAnalyzeDamageNoDetections(t *testing.T) {
	t.Parallel()

	det := &stubDetector{out: &detector.Output{}}
	svc := New(testSettings(), &stubFetcher{image: []byte{0x01}}, det, &stubPredictor{})

	rep, err := svc.AnalyzeDamage(context.Background(), &DamageRequest{ImageURL: "http://x/y.jpg"})
	require.NoError(t, err)

	assert.Equal(t, damage.StatusNoDetection, rep.DamageAnalysis.Status)
	assert.Equal(t, 100.0, rep.DamageAnalysis.HealthyPercentage)
	assert.Equal(t, assessment.StatusNormal, rep.BusinessAssessment.Status)
	assert.Zero(t, rep.BusinessAssessment.DamageDegree)
}

func TestAnalyzePerformancePipeline(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{predicted: 454.11},
		WithStore(store))

	rep, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		PanelID:          7,
		UserID:           42,
		Panel:            testPanelSpec(),
		Environment:      testSeries(),
		ActualGeneration: 310,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.683, rep.Result.PerformanceRatio, 0.0005)
	assert.Equal(t, performance.StatusPoor, rep.Result.Status)
	assert.Empty(t, rep.ReportPath)

	require.Len(t, store.perfRecords, 1)
	assert.Equal(t, rep.Result.PerformanceRatio, store.perfRecords[0].PerformanceRatio)
}

func TestAnalyzePerformancePredictionFailure(t *testing.T) {
	t.Parallel()

	predErr := errors.Newf("model not loaded").Category(errors.CategoryModelLoad).Build()
	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{err: predErr})

	_, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		Panel:            testPanelSpec(),
		Environment:      testSeries(),
		ActualGeneration: 310,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryModelLoad))
}

func TestAnalyzePerformanceInvalidPrediction(t *testing.T) {
	t.Parallel()

	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{predicted: 0})

	_, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		Panel:            testPanelSpec(),
		Environment:      testSeries(),
		ActualGeneration: 310,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPrediction))
}

func TestAnalyzePerformanceMismatchedSeries(t *testing.T) {
	t.Parallel()

	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{predicted: 454.11})

	series := testSeries()
	series.Humidity = series.Humidity[:1]

	_, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		Panel:            testPanelSpec(),
		Environment:      series,
		ActualGeneration: 310,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestAnalyzePerformanceRenderedReport(t *testing.T) {
	t.Parallel()

	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{predicted: 454.11},
		WithRenderer(&stubRenderer{path: "reports/42_20260301_093015.pdf"}))

	rep, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		PanelID:          7,
		UserID:           42,
		Panel:            testPanelSpec(),
		Environment:      testSeries(),
		ActualGeneration: 310,
		GenerateReport:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "reports/42_20260301_093015.pdf", rep.ReportPath)
	assert.Empty(t, rep.ReportWarning)
}

// A renderer failure must not fail the analysis: the result comes back with
// an empty report path and a warning.
func TestAnalyzePerformanceRendererFailureDegrades(t *testing.T) {
	t.Parallel()

	renderErr := errors.Newf("renderer down").Category(errors.CategoryReportRender).Build()
	store := &stubStore{}
	svc := New(testSettings(), &stubFetcher{}, &stubDetector{}, &stubPredictor{predicted: 454.11},
		WithRenderer(&stubRenderer{err: renderErr}),
		WithStore(store))

	rep, err := svc.AnalyzePerformance(context.Background(), &PerformanceRequest{
		PanelID:          7,
		UserID:           42,
		Panel:            testPanelSpec(),
		Environment:      testSeries(),
		ActualGeneration: 310,
		GenerateReport:   true,
	})
	require.NoError(t, err)

	assert.Empty(t, rep.ReportPath)
	assert.NotEmpty(t, rep.ReportWarning)

	// The record still persists, with an empty report path.
	require.Len(t, store.perfRecords, 1)
	assert.Empty(t, store.perfRecords[0].ReportPath)
}
