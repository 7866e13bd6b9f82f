package analysis

import (
	"context"
	"time"

	"github.com/solarscan/solarscan-go/internal/assessment"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/report"
)

// BatchDamageRequest carries one damage request per panel image.
type BatchDamageRequest struct {
	Items []DamageRequest `json:"items"`
}

// AnalyzeDamageBatch runs the damage pipeline over every item and summarizes
// the outcomes at fleet level. A failing item is recorded and skipped, it
// never aborts the rest of the batch; the request fails only when no item
// could be analyzed at all.
func (s *Service) AnalyzeDamageBatch(ctx context.Context, req *BatchDamageRequest) (*report.BatchDamageReport, error) {
	if len(req.Items) == 0 {
		return nil, errors.Newf("batch must contain at least one item").
			Component("analysis").
			Category(errors.CategoryValidation).
			Build()
	}

	reports := make([]*report.DamageReport, 0, len(req.Items))
	var failures []report.BatchFailure
	panels := make([]assessment.FleetPanel, 0, len(req.Items))

	for i := range req.Items {
		item := &req.Items[i]
		rep, err := s.AnalyzeDamage(ctx, item)
		if err != nil {
			s.log.Warn("batch item failed",
				"panel_id", item.PanelID,
				"image_url", item.ImageURL,
				"error", err)
			failures = append(failures, report.BatchFailure{
				PanelID:  item.PanelID,
				ImageURL: item.ImageURL,
				Error:    err.Error(),
			})
			continue
		}
		reports = append(reports, rep)
		panels = append(panels, assessment.FleetPanel{
			OverallDamagePercentage:  rep.DamageAnalysis.OverallDamagePercentage,
			CriticalDamagePercentage: rep.DamageAnalysis.CriticalDamagePercentage,
			Priority:                 rep.BusinessAssessment.Priority,
		})
	}

	summary, err := assessment.SummarizeFleet(panels)
	if err != nil {
		return nil, errors.Newf("batch analysis produced no results: all %d items failed", len(req.Items)).
			Component("analysis").
			Category(errors.CategoryValidation).
			Context("failed_items", len(failures)).
			Build()
	}

	s.log.Info("batch damage analysis complete",
		"analyzed", len(reports),
		"failed", len(failures),
		"fleet_status", summary.OverallFleetStatus)

	return &report.BatchDamageReport{
		Reports:   reports,
		Failures:  failures,
		Summary:   summary,
		Timestamp: time.Now(),
	}, nil
}
