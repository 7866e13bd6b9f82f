// Package api implements the v2 HTTP API for the analysis service.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/solarscan/solarscan-go/internal/analysis"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/detector"
	"github.com/solarscan/solarscan-go/internal/errors"
	"github.com/solarscan/solarscan-go/internal/logging"
)

// Cache lifetimes for repeated analysis of the same image URL.
const (
	analysisCacheTTL     = 5 * time.Minute
	analysisCacheCleanup = 10 * time.Minute
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Settings *conf.Settings
	DS       datastore.Interface

	service   *analysis.Service
	detector  detector.Interface
	apiLogger *slog.Logger
	logCloser func() error

	// analysisCache short-circuits repeated damage analysis of the same
	// image URL. Keyed by URL, value is the assembled response.
	analysisCache *cache.Cache

	startTime time.Time
}

// New creates a new API controller and registers its routes.
func New(e *echo.Echo, settings *conf.Settings, service *analysis.Service, det detector.Interface, ds datastore.Interface) *Controller {
	apiLogger := logging.ForService("api")
	if apiLogger == nil {
		apiLogger = slog.Default()
	}
	var logCloser func() error
	if settings.WebServer.Log.Enabled {
		fileLogger, closeFn, err := logging.NewFileLogger(settings.WebServer.Log.Path, "api", slog.LevelInfo)
		if err != nil {
			apiLogger.Warn("API file logging disabled", "path", settings.WebServer.Log.Path, "error", err)
		} else {
			apiLogger = fileLogger
			logCloser = closeFn
		}
	}
	c := &Controller{
		Echo:          e,
		Settings:      settings,
		DS:            ds,
		service:       service,
		detector:      det,
		apiLogger:     apiLogger,
		logCloser:     logCloser,
		analysisCache: cache.New(analysisCacheTTL, analysisCacheCleanup),
		startTime:     time.Now(),
	}

	c.Group = e.Group("/api/v2")
	c.Group.Use(middleware.Recover())

	c.initRoutes()
	return c
}

// Shutdown releases controller resources, closing the API log writer if one
// was opened.
func (c *Controller) Shutdown() {
	if c.logCloser != nil {
		_ = c.logCloser()
	}
}

// initRoutes registers all v2 API routes.
func (c *Controller) initRoutes() {
	c.Group.POST("/analysis/damage", c.AnalyzeDamage)
	c.Group.POST("/analysis/damage/batch", c.AnalyzeDamageBatch)
	c.Group.POST("/analysis/performance", c.AnalyzePerformance)
	c.Group.GET("/analysis/damage/history/:panel_id", c.DamageHistory)
	c.Group.GET("/analysis/performance/history/:panel_id", c.PerformanceHistory)
	c.Group.GET("/health", c.Health)
}

// ErrorResponse is the uniform error payload of the v2 API.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: uuid.NewString()[:8],
	}
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	c.apiLogger.Error("API Error",
		"correlation_id", errorResp.CorrelationID,
		"message", message,
		"error", errorResp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, errorResp)
}

// statusForError maps an error's category onto an HTTP status code.
func statusForError(err error) int {
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return http.StatusInternalServerError
	}
	switch ee.ErrorCategory() {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryModelLoad:
		return http.StatusServiceUnavailable
	case errors.CategoryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
