package detection

import (
	"github.com/solarscan/solarscan-go/internal/errors"
)

// Aggregates holds the per-class reduction of a detection set. It is the
// single aggregate both area and percentage breakdowns derive from.
type Aggregates struct {
	ClassArea       map[string]int       // summed area per class, pixels
	ClassConfidence map[string][]float64 // confidences per class, input order
	TotalAreaUsed   int                  // denominator for percentage math
	DetectionCount  int
	// TotalAreaKnown is false when no independent image area was supplied and
	// the denominator fell back to the sum of detection areas.
	TotalAreaKnown bool
}

// Normalize reduces a detection set into per-class area and confidence
// aggregates. totalImageArea may be zero or negative when the source image
// did not carry its dimensions; the documented fallback is the sum of all
// detection areas, clipped at minimum 1. With that fallback the overall
// damage percentage of a fully damaged detection set reads exactly 100.
func Normalize(dets []Detection, totalImageArea int) (Aggregates, error) {
	agg := Aggregates{
		ClassArea:       make(map[string]int),
		ClassConfidence: make(map[string][]float64),
		DetectionCount:  len(dets),
	}

	areaSum := 0
	for i := range dets {
		d := &dets[i]
		if _, known := SeverityOf(d.ClassName); !known {
			return Aggregates{}, errors.Newf("unknown detection class %q", d.ClassName).
				Component("detection").
				Category(errors.CategoryValidation).
				Context("class_name", d.ClassName).
				Build()
		}
		if d.Confidence < 0 || d.Confidence > 1 {
			return Aggregates{}, errors.Newf("detection confidence %v out of range [0, 1]", d.Confidence).
				Component("detection").
				Category(errors.CategoryValidation).
				Context("class_name", d.ClassName).
				Build()
		}
		if d.AreaPixels < 0 {
			return Aggregates{}, errors.Newf("detection area %d must not be negative", d.AreaPixels).
				Component("detection").
				Category(errors.CategoryValidation).
				Context("class_name", d.ClassName).
				Build()
		}

		// Overlapping regions are summed as reported by the detector, no
		// deduplication is attempted.
		agg.ClassArea[d.ClassName] += d.AreaPixels
		agg.ClassConfidence[d.ClassName] = append(agg.ClassConfidence[d.ClassName], d.Confidence)
		areaSum += d.AreaPixels
	}

	if totalImageArea > 0 {
		agg.TotalAreaUsed = totalImageArea
		agg.TotalAreaKnown = true
	} else {
		agg.TotalAreaUsed = areaSum
		if agg.TotalAreaUsed < 1 {
			agg.TotalAreaUsed = 1
		}
	}

	return agg, nil
}

// AreaByTier sums the aggregated area over all classes of the given tier.
func (a *Aggregates) AreaByTier(tier SeverityTier) int {
	total := 0
	for class, area := range a.ClassArea {
		if t, _ := SeverityOf(class); t == tier {
			total += area
		}
	}
	return total
}

// DamagedArea sums the aggregated area over all non-healthy classes.
func (a *Aggregates) DamagedArea() int {
	total := 0
	for class, area := range a.ClassArea {
		if !IsHealthy(class) {
			total += area
		}
	}
	return total
}

// Confidences returns all detection confidences in registry class order.
func (a *Aggregates) Confidences() []float64 {
	var out []float64
	for _, class := range KnownClasses() {
		out = append(out, a.ClassConfidence[class]...)
	}
	return out
}
