package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
)

func testPerfSettings() *conf.PerformanceSettings {
	return &conf.PerformanceSettings{
		NormalRatio:       0.9,
		FairRatio:         0.7,
		EndOfLifeFraction: 0.8,
		CeilingMonths:     300,
		CostPerWatt:       2000,
	}
}

func testPanelSpec() *PanelSpec {
	return &PanelSpec{
		ModelName:             "Q.PEAK DUO-G9",
		SerialNumber:          1042,
		PMPRatedW:             400,
		TempCoeff:             -0.36,
		AnnualDegradationRate: 0.005,
		Lat:                   37.56,
		Lon:                   126.97,
		InstalledAt:           "2020-01-01",
		InstalledAngle:        30,
		InstalledDirection:    "South",
	}
}

func TestEstimateRejectsNonPositivePrediction(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, predicted := range []float64{0, -1, -454.11} {
		_, err := Estimate(testPanelSpec(), predicted, 310, now, testPerfSettings())
		require.Error(t, err, "predicted %v", predicted)
		assert.True(t, errors.HasCategory(err, errors.CategoryPrediction))
	}
}

func TestEstimateRatioAndStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	result, err := Estimate(testPanelSpec(), 454.11, 310, now, testPerfSettings())
	require.NoError(t, err)

	assert.InDelta(t, 0.683, result.PerformanceRatio, 0.0005)
	assert.Equal(t, StatusPoor, result.Status)
	assert.Equal(t, 454.11, result.PredictedGeneration)
	assert.Equal(t, 310.0, result.ActualGeneration)
}

func TestClassifyRatioBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  string
	}{
		{1.10, StatusNormal},
		{0.90, StatusNormal},
		{0.89, StatusFair},
		{0.70, StatusFair},
		{0.69, StatusPoor},
		{0.0, StatusPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyRatio(tt.ratio, testPerfSettings()), "ratio %v", tt.ratio)
	}
}

func TestLifespanCompoundDegradation(t *testing.T) {
	t.Parallel()

	settings := testPerfSettings()

	// 8% annual degradation: 12×ln(0.8)/ln(0.92) ≈ 32.1 months.
	total, remaining := lifespan(0.08, 12, settings)
	assert.InDelta(t, 32.1, total, 0.1)
	assert.InDelta(t, 20.1, remaining, 0.1)

	// Slow degradation projects past the ceiling and is capped there.
	total, remaining = lifespan(0.005, 36, settings)
	assert.Equal(t, 300.0, total)
	assert.Equal(t, 264.0, remaining)
}

func TestLifespanNonPositiveRate(t *testing.T) {
	t.Parallel()

	settings := testPerfSettings()

	// No degradation means no crossing point; the ceiling bounds the
	// projection instead of infinity.
	for _, rate := range []float64{0, -0.01} {
		total, remaining := lifespan(rate, 60, settings)
		assert.Equal(t, 300.0, total, "rate %v", rate)
		assert.Equal(t, 240.0, remaining, "rate %v", rate)
		assert.False(t, math.IsInf(total, 1))
	}
}

func TestLifespanRemainingNeverNegative(t *testing.T) {
	t.Parallel()

	_, remaining := lifespan(0.08, 1000, testPerfSettings())
	assert.Equal(t, 0.0, remaining)
}

func TestEstimatedCostScalesWithConsumedLife(t *testing.T) {
	t.Parallel()

	settings := testPerfSettings()
	spec := testPanelSpec()
	spec.AnnualDegradationRate = 0.08

	// Cost grows monotonically as the panel ages toward end-of-life and
	// never exceeds the full replacement price.
	replacement := int(spec.PMPRatedW * float64(settings.CostPerWatt))
	previous := -1
	for _, installed := range []string{"2026-01-01", "2024-06-01", "2023-06-01", "2010-01-01"} {
		aged := *spec
		aged.InstalledAt = installed
		result, err := Estimate(&aged, 454.11, 310, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), settings)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.EstimatedCost, previous, "installed %s", installed)
		assert.LessOrEqual(t, result.EstimatedCost, replacement)
		assert.GreaterOrEqual(t, result.EstimatedCost, 0)
		previous = result.EstimatedCost
	}
}

func TestEstimateFullyConsumedPanel(t *testing.T) {
	t.Parallel()

	spec := testPanelSpec()
	spec.AnnualDegradationRate = 0.08
	spec.InstalledAt = "2000-01-01"

	result, err := Estimate(spec, 454.11, 310, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), testPerfSettings())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.LifespanMonths)
	assert.Equal(t, 800000, result.EstimatedCost)
}
