// Package metrics provides Prometheus metrics for conversion runs
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the conversion metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	attempts       *prometheus.CounterVec
	attemptLatency *prometheus.HistogramVec
	conversions    *prometheus.CounterVec
	exportedBytes  *prometheus.CounterVec
	jobsInFlight   prometheus.Gauge
	uploads        *prometheus.CounterVec
}

// New creates and registers all conversion metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extrude_mesh_attempts_total",
				Help: "Total number of CAD kernel invocation attempts",
			},
			[]string{"strategy", "outcome"},
		),
		attemptLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "extrude_attempt_duration_seconds",
				Help:    "Duration of external tool invocations",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"tool"},
		),
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extrude_conversions_total",
				Help: "Total number of conversions by pipeline and result",
			},
			[]string{"pipeline", "status"},
		),
		exportedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extrude_exported_bytes_total",
				Help: "Total bytes of exported models",
			},
			[]string{"lod"},
		),
		jobsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "extrude_batch_jobs_in_flight",
				Help: "Number of batch jobs currently converting",
			},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extrude_uploads_total",
				Help: "Total number of published objects",
			},
			[]string{"status"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordAttempt records one strategy attempt
func (m *Metrics) RecordAttempt(strategy, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(strategy, outcome).Inc()
	m.attemptLatency.WithLabelValues("freecad").Observe(d.Seconds())
}

// RecordEngine records one scene engine invocation
func (m *Metrics) RecordEngine(d time.Duration) {
	if m == nil {
		return
	}
	m.attemptLatency.WithLabelValues("blender").Observe(d.Seconds())
}

// RecordConversion records a finished pipeline run
func (m *Metrics) RecordConversion(pipeline string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.conversions.WithLabelValues(pipeline, status).Inc()
}

// RecordExport records the size of an exported model
func (m *Metrics) RecordExport(lod string, size int64) {
	if m == nil {
		return
	}
	m.exportedBytes.WithLabelValues(lod).Add(float64(size))
}

// JobStarted and JobFinished track batch concurrency
func (m *Metrics) JobStarted() {
	if m != nil {
		m.jobsInFlight.Inc()
	}
}

func (m *Metrics) JobFinished() {
	if m != nil {
		m.jobsInFlight.Dec()
	}
}

// RecordUpload records one published object
func (m *Metrics) RecordUpload(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.uploads.WithLabelValues(status).Inc()
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics to path for the node exporter
// textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
