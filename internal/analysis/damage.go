package analysis

import (
	"context"
	"time"

	"github.com/solarscan/solarscan-go/internal/assessment"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/damage"
	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/detection"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/report"
)

// DamageRequest identifies the panel image to analyze.
type DamageRequest struct {
	PanelID  int    `json:"panel_id"`
	UserID   int    `json:"user_id"`
	ImageURL string `json:"image_url"`
}

// Validate rejects incomplete requests before any collaborator call.
func (r *DamageRequest) Validate() error {
	if r.ImageURL == "" {
		return errors.Newf("image_url is required").
			Component("analysis").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// AnalyzeDamage runs the full damage pipeline for one panel image: fetch the
// image, detect damage regions, reduce them to metrics, evaluate the business
// rules, persist the outcome and assemble the response. Any collaborator
// failure aborts the request with its error category intact; metrics are
// never replaced by defaults.
func (s *Service) AnalyzeDamage(ctx context.Context, req *DamageRequest) (*report.DamageReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	settings := s.snapshot()

	image, err := s.fetcher.Fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, s.fail(pipelineDamage, err)
	}

	out, err := s.detector.Detect(ctx, image)
	if err != nil {
		return nil, s.fail(pipelineDamage, err)
	}

	agg, err := detection.Normalize(out.Detections, out.TotalImageArea())
	if err != nil {
		return nil, s.fail(pipelineDamage, err)
	}

	m := damage.Calculate(agg)
	a := assessment.Evaluate(&m, &settings.Analysis)

	s.recordDamageOutcome(out.Detections, &m, &a)

	if s.store != nil {
		record := &datastore.PanelImageReport{
			PanelID:       req.PanelID,
			UserID:        req.UserID,
			Status:        a.Status,
			DamageDegree:  a.DamageDegree,
			Decision:      a.Decision,
			RequestStatus: a.RequestStatus,
			CreatedAt:     time.Now(),
		}
		err := s.saveTimed("save", "panel_image_reports", func() error {
			return s.store.SavePanelImageReport(record)
		})
		if err != nil {
			return nil, s.fail(pipelineDamage, err)
		}
	}

	now := time.Now()
	img := report.ImageInfo{
		URL:         req.ImageURL,
		SizeBytes:   len(image),
		TotalArea:   out.TotalImageArea(),
		AreaUnknown: !agg.TotalAreaKnown,
	}
	rep := report.AssembleDamage(req.PanelID, req.UserID, img, &m, &a, out.Detections, started, now)

	if s.metrics != nil {
		s.metrics.Analysis.RecordAnalysisDuration(pipelineDamage, now.Sub(started).Seconds())
	}
	s.log.Info("damage analysis complete",
		"panel_id", req.PanelID,
		"status", a.Status,
		"decision", a.Decision,
		"overall_damage", m.OverallDamagePercentage,
		"duration_ms", now.Sub(started).Milliseconds())

	return rep, nil
}

// recordDamageOutcome feeds the damage pipeline outcome to the collectors.
func (s *Service) recordDamageOutcome(dets []detection.Detection, m *damage.Metrics, a *assessment.Assessment) {
	if s.metrics == nil {
		return
	}
	for i := range dets {
		s.metrics.Analysis.RecordDetection(dets[i].ClassName)
	}
	s.metrics.Analysis.RecordDamagePercent(m.OverallDamagePercentage)
	s.metrics.Analysis.RecordAssessment(a.Priority, a.Decision)
}

// snapshot returns the settings the whole request will compute against.
// Reloads swap the snapshot atomically, never mutate it.
func (s *Service) snapshot() *conf.Settings {
	if current := conf.GetSettings(); current != nil {
		return current
	}
	return s.settings
}

// fail counts the failure and returns the error unchanged.
func (s *Service) fail(pipeline string, err error) error {
	if s.metrics != nil {
		var ee *errors.EnhancedError
		category := string(errors.CategoryGeneric)
		if errors.As(err, &ee) {
			category = ee.GetCategory()
		}
		s.metrics.Analysis.RecordAnalysisError(pipeline, category)
	}
	return err
}
