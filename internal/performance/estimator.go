package performance

import (
	"math"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
)

// Performance status values by ratio band.
const (
	StatusNormal = "정상" // ratio >= normal band
	StatusFair   = "미흡" // fair band <= ratio < normal band
	StatusPoor   = "불량" // ratio < fair band
)

// Result is the per-request outcome of a performance assessment.
type Result struct {
	PredictedGeneration float64 `json:"predicted_generation"`
	ActualGeneration    float64 `json:"actual_generation"`
	PerformanceRatio    float64 `json:"performance_ratio"`
	Status              string  `json:"status"`
	LifespanMonths      float64 `json:"lifespan_months"`
	EstimatedCost       int     `json:"estimated_cost"`
}

// Estimate combines a panel spec with the externally supplied generation
// prediction and the measured actual generation. predicted must be positive;
// a non-positive prediction is an invalid-prediction error, never a silent
// ratio of infinity or NaN.
func Estimate(spec *PanelSpec, predicted, actual float64, now time.Time, settings *conf.PerformanceSettings) (Result, error) {
	if predicted <= 0 {
		return Result{}, errors.Newf("predicted generation must be positive, got %v", predicted).
			Component("performance").
			Category(errors.CategoryPrediction).
			Context("predicted_generation", predicted).
			Build()
	}

	ratio := actual / predicted

	elapsed := spec.ElapsedMonths(now)
	totalMonths, remainingMonths := lifespan(spec.AnnualDegradationRate, elapsed, settings)

	return Result{
		PredictedGeneration: round2(predicted),
		ActualGeneration:    round2(actual),
		PerformanceRatio:    round3(ratio),
		Status:              classifyRatio(ratio, settings),
		LifespanMonths:      round1(remainingMonths),
		EstimatedCost:       replacementCost(spec, totalMonths, remainingMonths, settings),
	}, nil
}

// classifyRatio maps a performance ratio onto the fixed status bands.
func classifyRatio(ratio float64, settings *conf.PerformanceSettings) string {
	switch {
	case ratio >= settings.NormalRatio:
		return StatusNormal
	case ratio >= settings.FairRatio:
		return StatusFair
	default:
		return StatusPoor
	}
}

// lifespan projects the months until compound annual degradation pushes the
// panel's output below the end-of-life fraction of its rated power:
//
//	output(t) = rated × (1 − rate)^(t/12)
//
// and returns the total projected lifespan together with the months still
// remaining after subtracting the panel's elapsed age. A non-positive
// degradation rate means no degradation; the lifespan then defaults to the
// configured ceiling rather than infinity.
func lifespan(annualRate, elapsedMonths float64, settings *conf.PerformanceSettings) (total, remaining float64) {
	if annualRate <= 0 {
		total = settings.CeilingMonths
	} else {
		total = 12 * math.Log(settings.EndOfLifeFraction) / math.Log(1-annualRate)
		total = math.Min(total, settings.CeilingMonths)
	}
	remaining = math.Max(0, total-elapsedMonths)
	return total, remaining
}

// replacementCost scales the full replacement price by the consumed fraction
// of the projected lifespan: a panel near end-of-life trends toward full
// replacement cost, a fresh panel toward zero. Bounded in [0, replacement].
func replacementCost(spec *PanelSpec, totalMonths, remainingMonths float64, settings *conf.PerformanceSettings) int {
	replacement := spec.PMPRatedW * float64(settings.CostPerWatt)
	if totalMonths <= 0 {
		return int(math.Round(replacement))
	}
	consumed := 1 - remainingMonths/totalMonths
	consumed = math.Min(1, math.Max(0, consumed))
	return int(math.Round(replacement * consumed))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
