package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "ecore2owl"

// Recorder counts emitted artifacts, diagnostics and runs in its own
// registry, so several recorders can coexist in one process.
type Recorder struct {
	registry    *prometheus.Registry
	artifacts   *prometheus.CounterVec // by kind
	diagnostics *prometheus.CounterVec // by kind
	runs        *prometheus.CounterVec // by status (success/error)
	duration    *prometheus.HistogramVec
	lastRun     prometheus.Gauge
}

// NewRecorder creates a recorder with all metrics registered. Go runtime
// and process collectors are included when withRuntime is set.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Ontology artifacts emitted, by kind",
		}, []string{"kind"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Recoverable problems met while lowering, by kind",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Transformation runs, by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Transformation run duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"status"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	r.registry.MustRegister(r.artifacts, r.diagnostics, r.runs, r.duration, r.lastRun)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// IncArtifact counts one emitted artifact.
func (r *Recorder) IncArtifact(kind string) {
	if r == nil {
		return
	}
	r.artifacts.WithLabelValues(kind).Inc()
}

// IncDiagnostic counts one recoverable problem.
func (r *Recorder) IncDiagnostic(kind string) {
	if r == nil {
		return
	}
	r.diagnostics.WithLabelValues(kind).Inc()
}

// ObserveRun records the outcome and duration of a run.
func (r *Recorder) ObserveRun(status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status).Inc()
	r.duration.WithLabelValues(status).Observe(duration.Seconds())
	r.lastRun.SetToCurrentTime()
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
