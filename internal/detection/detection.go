// Package detection defines the raw detection data model produced by the
// segmentation model and the class registry used to interpret it.
package detection

// SeverityTier is a fixed ordinal attached to a damage class. It controls how
// much a class contributes to the critical vs contamination metrics.
type SeverityTier int

const (
	TierNone          SeverityTier = 0 // healthy surface, no remediation
	TierContamination SeverityTier = 1 // surface contamination, cleanable
	TierCritical      SeverityTier = 3 // structural or electrical damage
)

// Detection represents one classified damage or contamination region reported
// by the segmentation model. Immutable once created.
type Detection struct {
	ClassName  string     `json:"class_name"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"` // x1, y1, x2, y2
	AreaPixels int        `json:"area_pixels"`
}

// classOrder fixes the iteration order of the class registry so that
// breakdowns and reports are deterministic across runs.
var classOrder = []string{
	"Clean",
	"Non-Defective",
	"Bird-drop",
	"Dusty",
	"Snow",
	"Defective",
	"Physical-Damage",
	"Electrical-Damage",
}

// classSeverity maps each known class name to its severity tier. Loaded once,
// read-only for the process lifetime. Unknown classes are rejected at the
// normalizer boundary rather than propagated downstream.
var classSeverity = map[string]SeverityTier{
	"Clean":             TierNone,
	"Non-Defective":     TierNone,
	"Bird-drop":         TierContamination,
	"Dusty":             TierContamination,
	"Snow":              TierContamination,
	"Defective":         TierCritical,
	"Physical-Damage":   TierCritical,
	"Electrical-Damage": TierCritical,
}

// SeverityOf returns the severity tier of a class name and whether the class
// is known to the registry.
func SeverityOf(className string) (SeverityTier, bool) {
	tier, ok := classSeverity[className]
	return tier, ok
}

// KnownClasses returns the closed set of class names in registry order.
func KnownClasses() []string {
	out := make([]string, len(classOrder))
	copy(out, classOrder)
	return out
}

// IsHealthy reports whether the class describes an undamaged surface.
func IsHealthy(className string) bool {
	return classSeverity[className] == TierNone
}
