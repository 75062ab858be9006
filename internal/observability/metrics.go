// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Fit metrics
	GridEvaluations prometheus.Counter
	RefineRuns      prometheus.Counter
	FitsCompleted   prometheus.Counter
	FitDuration     prometheus.Histogram

	// Generation metrics
	SensorsGenerated prometheus.Counter
	ReadingsStreamed prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "icgm_sensor_lab"
	}

	return &Metrics{
		GridEvaluations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "grid_evaluations_total",
			Help:      "Total number of grid-point loss evaluations",
		}),
		RefineRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "refine_runs_total",
			Help:      "Total number of local refinement runs",
		}),
		FitsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "fits_completed_total",
			Help:      "Total number of completed fits",
		}),
		FitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fit",
			Name:      "duration_seconds",
			Help:      "Fit execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		SensorsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "sensors_generated_total",
			Help:      "Total number of sensors generated",
		}),
		ReadingsStreamed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "readings_streamed_total",
			Help:      "Total number of sensor readings pushed to consumers",
		}),
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordGridEvaluation increments the grid evaluation counter.
func RecordGridEvaluation() {
	DefaultMetrics.GridEvaluations.Inc()
}

// RecordRefineRun increments the refinement run counter.
func RecordRefineRun() {
	DefaultMetrics.RefineRuns.Inc()
}

// RecordFitCompleted records one finished fit and its duration.
func RecordFitCompleted(seconds float64) {
	DefaultMetrics.FitsCompleted.Inc()
	DefaultMetrics.FitDuration.Observe(seconds)
}

// RecordSensorsGenerated adds to the generated sensor counter.
func RecordSensorsGenerated(n int) {
	DefaultMetrics.SensorsGenerated.Add(float64(n))
}

// RecordReadingStreamed increments the streamed reading counter.
func RecordReadingStreamed() {
	DefaultMetrics.ReadingsStreamed.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
