// Package analysis orchestrates the damage and performance pipelines. Each
// request is one synchronous chain of pure computations around the external
// collaborator calls; collaborator failures abort the request with their
// category intact.
package analysis

import (
	"log/slog"
	"time"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/detector"
	"github.com/solarscan/solarscan-go/internal/imagefetch"
	"github.com/solarscan/solarscan-go/internal/logging"
	"github.com/solarscan/solarscan-go/internal/observability"
	"github.com/solarscan/solarscan-go/internal/observability/metrics"
	"github.com/solarscan/solarscan-go/internal/predictor"
	"github.com/solarscan/solarscan-go/internal/report"
)

// Pipeline labels used in metrics and logs.
const (
	pipelineDamage      = "damage"
	pipelinePerformance = "performance"
)

// Service runs the analysis pipelines against a fixed set of collaborators.
// The settings snapshot is read per request so a config reload takes effect
// without restarting in-flight work.
type Service struct {
	settings *conf.Settings
	fetcher  imagefetch.Fetcher
	detector detector.Interface
	predict  predictor.Interface
	renderer report.Renderer
	store    datastore.Interface
	metrics  *observability.Metrics
	log      *slog.Logger
}

// Option configures optional collaborators on a Service.
type Option func(*Service)

// WithRenderer attaches a document renderer.
func WithRenderer(r report.Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithStore attaches a persistence backend.
func WithStore(store datastore.Interface) Option {
	return func(s *Service) { s.store = store }
}

// WithMetrics attaches metric collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds an analysis service. fetcher, det and predict are required;
// renderer, store and metrics are optional.
func New(settings *conf.Settings, fetcher imagefetch.Fetcher, det detector.Interface, predict predictor.Interface, opts ...Option) *Service {
	log := logging.ForService("analysis")
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		settings: settings,
		fetcher:  fetcher,
		detector: det,
		predict:  predict,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// saveTimed runs one datastore write and feeds its outcome to the datastore
// collectors.
func (s *Service) saveTimed(operation, table string, fn func() error) error {
	start := time.Now()
	err := fn()
	if s.metrics != nil {
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
			s.metrics.Datastore.RecordDbOperationError(operation, table, "write_failed")
		}
		s.metrics.Datastore.RecordDbOperation(operation, table, status)
		s.metrics.Datastore.RecordDbOperationDuration(operation, table, time.Since(start).Seconds())
	}
	return err
}
