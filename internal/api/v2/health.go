package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthResponse reports service liveness and collaborator readiness.
type HealthResponse struct {
	Status         string  `json:"status"`
	DetectorLoaded bool    `json:"detector_loaded"`
	Version        string  `json:"version"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Health handles GET /api/v2/health
func (c *Controller) Health(ctx echo.Context) error {
	resp := HealthResponse{
		Status:         "healthy",
		DetectorLoaded: c.detector != nil,
		Version:        c.Settings.Version,
		UptimeSeconds:  time.Since(c.startTime).Seconds(),
	}
	if !resp.DetectorLoaded {
		resp.Status = "degraded"
	}
	return ctx.JSON(http.StatusOK, resp)
}
