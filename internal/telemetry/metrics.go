// Package telemetry wires Prometheus metrics and OpenTelemetry tracing around
// document transformations.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts transformed documents and unrolled template iterations. It
// implements transform.Observer; a nil *Metrics is a no-op.
type Metrics struct {
	Documents         *prometheus.CounterVec
	UnrolledLocations *prometheus.CounterVec
	DocumentDuration  prometheus.Histogram
}

// NewMetrics registers the collectors with reg. A nil registerer creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xmlform_documents_total",
			Help: "Documents transformed, by outcome",
		}, []string{"outcome"}),
		UnrolledLocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xmlform_unrolled_locations_total",
			Help: "Template replays performed by repeat and itemset tags",
		}, []string{"tag"}),
		DocumentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "xmlform_document_duration_seconds",
			Help:    "Duration of a full document transformation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
	}
}

// ObserveDocument records the outcome and duration of one document.
// Call with time.Now() taken before the transformation started.
func (m *Metrics) ObserveDocument(start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Documents.WithLabelValues(outcome).Inc()
	m.DocumentDuration.Observe(time.Since(start).Seconds())
}

// ObserveUnroll records how many locations a repeat or itemset unrolled to.
func (m *Metrics) ObserveUnroll(tag string, locations int) {
	if m == nil {
		return
	}
	m.UnrolledLocations.WithLabelValues(tag).Add(float64(locations))
}
