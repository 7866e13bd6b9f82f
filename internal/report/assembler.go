// Package report assembles analysis outcomes into the response and record
// shapes returned to callers, and holds the boundary to the external document
// renderer.
package report

import (
	"fmt"
	"time"

	"github.com/solarscan/solarscan-go/internal/assessment"
	"github.com/solarscan/solarscan-go/internal/damage"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/environment"
	"github.com/solarscan/solarscan-go/internal/performance"
)

// timestampLayout is the compact timestamp used in rendered report filenames.
const timestampLayout = "20060102_150405"

// ImageInfo describes the analyzed image.
type ImageInfo struct {
	URL         string `json:"url"`
	SizeBytes   int    `json:"size_bytes"`
	TotalArea   int    `json:"total_area,omitempty"`
	AreaUnknown bool   `json:"area_unknown,omitempty"`
}

// DamageReport is the full response of one damage analysis request. A pure
// merge of the pipeline outputs; assembly never recomputes metrics.
type DamageReport struct {
	PanelID               int                   `json:"panel_id"`
	UserID                int                   `json:"user_id"`
	ImageInfo             ImageInfo             `json:"image_info"`
	DamageAnalysis        damage.Metrics        `json:"damage_analysis"`
	BusinessAssessment    assessment.Assessment `json:"business_assessment"`
	DetectionDetails      []detection.Detection `json:"detection_details"`
	ClassAreas            map[string]int        `json:"class_areas,omitempty"` // summed pixels per class
	ConfidenceScore       float64               `json:"confidence_score"`
	Timestamp             time.Time             `json:"timestamp"`
	ProcessingTimeSeconds float64               `json:"processing_time_seconds"`
}

// AssembleDamage merges the damage pipeline outputs into the response shape.
func AssembleDamage(panelID, userID int, img ImageInfo, m *damage.Metrics, a *assessment.Assessment, dets []detection.Detection, started time.Time, now time.Time) *DamageReport {
	return &DamageReport{
		PanelID:               panelID,
		UserID:                userID,
		ImageInfo:             img,
		DamageAnalysis:        *m,
		BusinessAssessment:    *a,
		DetectionDetails:      dets,
		ClassAreas:            m.ClassAreas(),
		ConfidenceScore:       m.AvgConfidence,
		Timestamp:             now,
		ProcessingTimeSeconds: now.Sub(started).Seconds(),
	}
}

// PerformanceReport is the full response of one performance analysis request.
// ReportPath is empty when no document was rendered.
type PerformanceReport struct {
	PanelID           int                   `json:"panel_id"`
	UserID            int                   `json:"user_id"`
	PanelInfo         performance.PanelSpec `json:"panel_info"`
	EnvironmentalData environment.Summary   `json:"environmental_data"`
	Result            performance.Result    `json:"result"`
	ReportPath        string                `json:"report_path,omitempty"`
	ReportWarning     string                `json:"report_warning,omitempty"`
	Timestamp         time.Time             `json:"timestamp"`
}

// AssemblePerformance merges the performance pipeline outputs into the
// response shape.
func AssemblePerformance(panelID, userID int, spec *performance.PanelSpec, env *environment.Summary, result performance.Result, now time.Time) *PerformanceReport {
	return &PerformanceReport{
		PanelID:           panelID,
		UserID:            userID,
		PanelInfo:         *spec,
		EnvironmentalData: *env,
		Result:            result,
		Timestamp:         now,
	}
}

// BatchFailure records one batch item that could not be analyzed.
type BatchFailure struct {
	PanelID  int    `json:"panel_id"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error"`
}

// BatchDamageReport is the response of one batch damage analysis request:
// every per-image report that succeeded, the items that failed, and the
// fleet-level summary over the successes.
type BatchDamageReport struct {
	Reports   []*DamageReport         `json:"reports"`
	Failures  []BatchFailure          `json:"failures,omitempty"`
	Summary   assessment.FleetSummary `json:"summary"`
	Timestamp time.Time               `json:"timestamp"`
}

// DocumentName returns the filename for a rendered report, unique per user
// and request time.
func DocumentName(userID int, now time.Time) string {
	return fmt.Sprintf("%d_%s.pdf", userID, now.Format(timestampLayout))
}
