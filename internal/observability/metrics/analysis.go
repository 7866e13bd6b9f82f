package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics contains Prometheus metrics for the analysis pipelines.
type AnalysisMetrics struct {
	registry *prometheus.Registry

	// Damage pipeline metrics
	detectionsTotal     *prometheus.CounterVec
	damagePercentHist   prometheus.Histogram
	assessmentsTotal    *prometheus.CounterVec
	analysisDuration    *prometheus.HistogramVec
	analysisErrorsTotal *prometheus.CounterVec

	// Performance pipeline metrics
	performanceRatioHist prometheus.Histogram
	predictionsTotal     *prometheus.CounterVec
	reportsRenderedTotal *prometheus.CounterVec

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewAnalysisMetrics creates and registers new analysis metrics
func NewAnalysisMetrics(registry *prometheus.Registry) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *AnalysisMetrics) initMetrics() {
	m.detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_detections_total",
			Help: "Total number of detections by class",
		},
		[]string{"class"},
	)

	m.damagePercentHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_damage_percent",
			Help:    "Distribution of overall damage percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100 in 10% steps
		},
	)

	m.assessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_assessments_total",
			Help: "Total number of business assessments by priority and decision",
		},
		[]string{"priority", "decision"},
	)

	m.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Time taken for analysis requests",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15),
		},
		[]string{"pipeline"}, // pipeline: damage, performance
	)

	m.analysisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_errors_total",
			Help: "Total number of analysis failures by pipeline and error category",
		},
		[]string{"pipeline", "category"},
	)

	m.performanceRatioHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_performance_ratio",
			Help:    "Distribution of actual/predicted generation ratios",
			Buckets: prometheus.LinearBuckets(0, 0.1, 16), // 0 to 1.5
		},
	)

	m.predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_predictions_total",
			Help: "Total number of generation predictions by status",
		},
		[]string{"status"},
	)

	m.reportsRenderedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_reports_rendered_total",
			Help: "Total number of report render attempts by status",
		},
		[]string{"status"},
	)

	m.collectors = []prometheus.Collector{
		m.detectionsTotal,
		m.damagePercentHist,
		m.assessmentsTotal,
		m.analysisDuration,
		m.analysisErrorsTotal,
		m.performanceRatioHist,
		m.predictionsTotal,
		m.reportsRenderedTotal,
	}
}

// Describe implements the Collector interface
func (m *AnalysisMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *AnalysisMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordDetection records one detection of the given class.
func (m *AnalysisMetrics) RecordDetection(class string) {
	m.detectionsTotal.WithLabelValues(class).Inc()
}

// RecordDamagePercent records an overall damage percentage observation.
func (m *AnalysisMetrics) RecordDamagePercent(percent float64) {
	m.damagePercentHist.Observe(percent)
}

// RecordAssessment records one business assessment outcome.
func (m *AnalysisMetrics) RecordAssessment(priority, decision string) {
	m.assessmentsTotal.WithLabelValues(priority, decision).Inc()
}

// RecordAnalysisDuration records the duration of an analysis request.
func (m *AnalysisMetrics) RecordAnalysisDuration(pipeline string, seconds float64) {
	m.analysisDuration.WithLabelValues(pipeline).Observe(seconds)
}

// RecordAnalysisError records an analysis failure.
func (m *AnalysisMetrics) RecordAnalysisError(pipeline, category string) {
	m.analysisErrorsTotal.WithLabelValues(pipeline, category).Inc()
}

// RecordPerformanceRatio records an actual/predicted generation ratio.
func (m *AnalysisMetrics) RecordPerformanceRatio(ratio float64) {
	m.performanceRatioHist.Observe(ratio)
}

// RecordPrediction records a generation prediction attempt.
func (m *AnalysisMetrics) RecordPrediction(status string) {
	m.predictionsTotal.WithLabelValues(status).Inc()
}

// RecordReportRender records a report render attempt.
func (m *AnalysisMetrics) RecordReportRender(status string) {
	m.reportsRenderedTotal.WithLabelValues(status).Inc()
}
