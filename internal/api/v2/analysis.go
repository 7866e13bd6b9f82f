package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solarscan/solarscan-go/internal/analysis"
	"github.com/solarscan/solarscan-go/internal/report"
)

// defaultHistoryLimit bounds history queries without an explicit limit.
const defaultHistoryLimit = 20

// AnalyzeDamage handles POST /api/v2/analysis/damage
func (c *Controller) AnalyzeDamage(ctx echo.Context) error {
	var req analysis.DamageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if cached, found := c.analysisCache.Get(req.ImageURL); found {
		if rep, ok := cached.(*report.DamageReport); ok && rep.PanelID == req.PanelID {
			return ctx.JSON(http.StatusOK, rep)
		}
	}

	rep, err := c.service.AnalyzeDamage(ctx.Request().Context(), &req)
	if err != nil {
		return c.HandleError(ctx, err, "Damage analysis failed", statusForError(err))
	}

	c.analysisCache.SetDefault(req.ImageURL, rep)
	return ctx.JSON(http.StatusOK, rep)
}

// AnalyzeDamageBatch handles POST /api/v2/analysis/damage/batch
func (c *Controller) AnalyzeDamageBatch(ctx echo.Context) error {
	var req analysis.BatchDamageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	rep, err := c.service.AnalyzeDamageBatch(ctx.Request().Context(), &req)
	if err != nil {
		return c.HandleError(ctx, err, "Batch damage analysis failed", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, rep)
}

// AnalyzePerformance handles POST /api/v2/analysis/performance
func (c *Controller) AnalyzePerformance(ctx echo.Context) error {
	var req analysis.PerformanceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	rep, err := c.service.AnalyzePerformance(ctx.Request().Context(), &req)
	if err != nil {
		return c.HandleError(ctx, err, "Performance analysis failed", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, rep)
}

// DamageHistory handles GET /api/v2/analysis/damage/history/:panel_id
func (c *Controller) DamageHistory(ctx echo.Context) error {
	panelID, limit, err := historyParams(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid panel id", http.StatusBadRequest)
	}
	if c.DS == nil {
		return c.HandleError(ctx, nil, "Persistence is not enabled", http.StatusNotImplemented)
	}

	reports, err := c.DS.GetPanelImageReports(panelID, limit)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query damage history", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, reports)
}

// PerformanceHistory handles GET /api/v2/analysis/performance/history/:panel_id
func (c *Controller) PerformanceHistory(ctx echo.Context) error {
	panelID, limit, err := historyParams(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid panel id", http.StatusBadRequest)
	}
	if c.DS == nil {
		return c.HandleError(ctx, nil, "Persistence is not enabled", http.StatusNotImplemented)
	}

	records, err := c.DS.GetPerformanceRecords(panelID, limit)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query performance history", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, records)
}

func historyParams(ctx echo.Context) (panelID, limit int, err error) {
	panelID, err = strconv.Atoi(ctx.Param("panel_id"))
	if err != nil {
		return 0, 0, err
	}
	limit = defaultHistoryLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		if parsed, perr := strconv.Atoi(raw); perr == nil && parsed > 0 {
			limit = parsed
		}
	}
	return panelID, limit, nil
}
