package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exposes service operation metrics through a
// Prometheus registry. It records a latency histogram, an outcome counter
// labelled by operation, and a compatibility check verdict counter labelled
// by overall severity.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
	verdicts  *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder constructs a recorder and registers its
// collectors with reg. A nil registerer falls back to the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chromax",
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Latency of configuration service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chromax",
			Subsystem: "service",
			Name:      "operation_results_total",
			Help:      "Outcomes of configuration service operations.",
		}, []string{"operation", "status"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chromax",
			Subsystem: "checks",
			Name:      "verdicts_total",
			Help:      "Overall severities of completed compatibility checks.",
		}, []string{"overall"}),
	}
	reg.MustRegister(rec.durations, rec.results, rec.verdicts)
	return rec
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}

// ObserveCheck tallies the verdict of a completed compatibility check.
func (r *PrometheusMetricsRecorder) ObserveCheck(_ context.Context, overall Severity, _ int) {
	r.verdicts.WithLabelValues(string(overall)).Inc()
}
