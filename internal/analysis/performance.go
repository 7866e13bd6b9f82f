package analysis

import (
	"context"
	"time"

	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/environment"
	"github.com/solarscan/solarscan-go/internal/observability/metrics"
	"github.com/solarscan/solarscan-go/internal/performance"
	"github.com/solarscan/solarscan-go/internal/report"
)

// PerformanceRequest carries a panel spec, its environment series and the
// measured generation for one performance assessment.
type PerformanceRequest struct {
	PanelID          int                   `json:"panel_id"`
	UserID           int                   `json:"user_id"`
	Panel            performance.PanelSpec `json:"panel"`
	Environment      environment.Series    `json:"environment"`
	ActualGeneration float64               `json:"actual_generation"`
	GenerateReport   bool                  `json:"generate_report"`
}

// AnalyzePerformance runs the full performance pipeline: validate and reduce
// the environment series, build the model features, obtain the generation
// prediction, estimate performance and lifespan, optionally render a report
// document and persist the outcome. A renderer failure degrades to an empty
// report path with a warning; every other failure aborts the request.
func (s *Service) AnalyzePerformance(ctx context.Context, req *PerformanceRequest) (*report.PerformanceReport, error) {
	started := time.Now()
	settings := s.snapshot()

	if err := req.Panel.Validate(); err != nil {
		return nil, s.fail(pipelinePerformance, err)
	}
	env, err := req.Environment.Reduce()
	if err != nil {
		return nil, s.fail(pipelinePerformance, err)
	}

	now := time.Now()
	features := performance.BuildFeatures(&req.Panel, &env, now)

	predicted, err := s.predict.Predict(ctx, features)
	if err != nil {
		if s.metrics != nil {
			s.metrics.Analysis.RecordPrediction(metrics.StatusError)
		}
		return nil, s.fail(pipelinePerformance, err)
	}
	if s.metrics != nil {
		s.metrics.Analysis.RecordPrediction(metrics.StatusSuccess)
	}

	result, err := performance.Estimate(&req.Panel, predicted, req.ActualGeneration, now, &settings.Performance)
	if err != nil {
		return nil, s.fail(pipelinePerformance, err)
	}
	if s.metrics != nil {
		s.metrics.Analysis.RecordPerformanceRatio(result.PerformanceRatio)
	}

	rep := report.AssemblePerformance(req.PanelID, req.UserID, &req.Panel, &env, result, now)

	if req.GenerateReport {
		s.renderDocument(ctx, rep)
	}

	if s.store != nil {
		record := &datastore.PerformanceRecord{
			PanelID:             req.PanelID,
			UserID:              req.UserID,
			PredictedGeneration: result.PredictedGeneration,
			ActualGeneration:    result.ActualGeneration,
			PerformanceRatio:    result.PerformanceRatio,
			Status:              result.Status,
			LifespanMonths:      result.LifespanMonths,
			EstimatedCost:       result.EstimatedCost,
			ReportPath:          rep.ReportPath,
			CreatedAt:           now,
		}
		err := s.saveTimed("save", "performance_records", func() error {
			return s.store.SavePerformanceRecord(record)
		})
		if err != nil {
			return nil, s.fail(pipelinePerformance, err)
		}
	}

	if s.metrics != nil {
		s.metrics.Analysis.RecordAnalysisDuration(pipelinePerformance, time.Since(started).Seconds())
	}
	s.log.Info("performance analysis complete",
		"panel_id", req.PanelID,
		"status", result.Status,
		"performance_ratio", result.PerformanceRatio,
		"duration_ms", time.Since(started).Milliseconds())

	return rep, nil
}

// renderDocument invokes the renderer and degrades locally on failure: the
// assessment already succeeded, so the report comes back with an empty path
// and a warning instead of an error.
func (s *Service) renderDocument(ctx context.Context, rep *report.PerformanceReport) {
	if s.renderer == nil {
		rep.ReportWarning = "report rendering is not configured"
		return
	}

	path, err := s.renderer.Render(ctx, rep)
	if err != nil {
		s.log.Warn("report rendering failed, continuing without document",
			"panel_id", rep.PanelID,
			"error", err)
		if s.metrics != nil {
			s.metrics.Analysis.RecordReportRender(metrics.StatusError)
		}
		rep.ReportWarning = "report rendering failed, analysis result is unaffected"
		return
	}

	rep.ReportPath = path
	if s.metrics != nil {
		s.metrics.Analysis.RecordReportRender(metrics.StatusSuccess)
	}
}
