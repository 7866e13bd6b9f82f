// Package damage computes the percentage metrics of a normalized detection
// set. All functions are pure; the same aggregates always yield the same
// metrics.
package damage

import (
	"math"

	"github.com/solarscan/solarscan-go/internal/detection"
)

// Analysis status values carried on Metrics.
const (
	StatusAnalyzed    = "analyzed"
	StatusNoDetection = "no_detection"
)

// Metrics holds the damage percentages derived from one detection set.
// Recomputed per request, never persisted directly.
type Metrics struct {
	OverallDamagePercentage  float64            `json:"overall_damage_percentage"`
	CriticalDamagePercentage float64            `json:"critical_damage_percentage"`
	ContaminationPercentage  float64            `json:"contamination_percentage"`
	HealthyPercentage        float64            `json:"healthy_percentage"`
	AvgConfidence            float64            `json:"avg_confidence"`
	DetectedObjects          int                `json:"detected_objects"`
	ClassBreakdown           map[string]float64 `json:"class_breakdown"`
	Status                   string             `json:"status"`

	// Area aggregates, kept so both area and percentage breakdowns derive
	// from the same pass over the detections.
	TotalImageArea         int `json:"total_image_area,omitempty"`
	DamagedAreaPixels      int `json:"damaged_area_pixels,omitempty"`
	ContaminatedAreaPixels int `json:"contaminated_area_pixels,omitempty"`

	classAreas map[string]int
}

// NoDetection returns the metrics emitted when the detector reports nothing:
// all percentages zero and zero confidence.
func NoDetection() Metrics {
	return Metrics{
		HealthyPercentage: 100.0,
		ClassBreakdown:    map[string]float64{},
		Status:            StatusNoDetection,
	}
}

// Calculate reduces normalized detection aggregates into damage metrics.
// All percentages are clipped to [0, 100] and HealthyPercentage is exactly
// 100 minus the overall damage percentage.
func Calculate(agg detection.Aggregates) Metrics {
	if agg.DetectionCount == 0 {
		return NoDetection()
	}

	total := float64(agg.TotalAreaUsed)
	damagedArea := agg.DamagedArea()
	criticalArea := agg.AreaByTier(detection.TierCritical)
	contaminationArea := agg.AreaByTier(detection.TierContamination)

	overall := clipPercent(100 * float64(damagedArea) / total)
	critical := clipPercent(100 * float64(criticalArea) / total)
	contamination := clipPercent(100 * float64(contaminationArea) / total)

	m := Metrics{
		OverallDamagePercentage:  round2(overall),
		CriticalDamagePercentage: round2(critical),
		ContaminationPercentage:  round2(contamination),
		AvgConfidence:            round3(mean(agg.Confidences())),
		DetectedObjects:          agg.DetectionCount,
		ClassBreakdown:           make(map[string]float64, len(agg.ClassArea)),
		Status:                   StatusAnalyzed,
		DamagedAreaPixels:        damagedArea,
		ContaminatedAreaPixels:   contaminationArea,
		classAreas:               agg.ClassArea,
	}
	m.HealthyPercentage = round2(100 - m.OverallDamagePercentage)
	if agg.TotalAreaKnown {
		m.TotalImageArea = agg.TotalAreaUsed
	}

	for _, class := range detection.KnownClasses() {
		if area, ok := agg.ClassArea[class]; ok {
			m.ClassBreakdown[class] = round2(clipPercent(100 * float64(area) / total))
		}
	}

	return m
}

// ClassAreas returns the per-class summed area in pixels, the area-unit form
// of the class breakdown. Derived from the same aggregate as the percentage
// form, without recomputation.
func (m *Metrics) ClassAreas() map[string]int {
	out := make(map[string]int, len(m.classAreas))
	for class, area := range m.classAreas {
		out[class] = area
	}
	return out
}

func clipPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
