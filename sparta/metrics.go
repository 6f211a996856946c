package sparta

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for merge runs. A nil Metrics
// is valid and records nothing, so one-shot runs pay no setup cost.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal         *prometheus.CounterVec
	RecordsTranslated *prometheus.CounterVec
	RecordsSkipped    prometheus.Counter
	EdgesSkipped      prometheus.Counter
	TriplesAdded      prometheus.Counter
	RunDuration       prometheus.Histogram
	GraphTriples      prometheus.Gauge
}

// NewMetrics builds a metrics set on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}

	m.RunsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontomerge_runs_total",
			Help: "Total number of merge runs",
		},
		[]string{"status"}, // ok, error
	)

	m.RecordsTranslated = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontomerge_records_translated_total",
			Help: "Records translated into ontology nodes",
		},
		[]string{"kind"},
	)

	m.RecordsSkipped = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ontomerge_records_skipped_total",
			Help: "Records skipped for lacking a sparta identifier",
		},
	)

	m.EdgesSkipped = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ontomerge_edges_skipped_total",
			Help: "Relationship edges dropped because no target URI could be derived",
		},
	)

	m.TriplesAdded = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ontomerge_triples_added_total",
			Help: "Triples the merge added to the ontology",
		},
	)

	m.RunDuration = promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ontomerge_run_duration_seconds",
			Help:    "Duration of merge runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	m.GraphTriples = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ontomerge_graph_triples",
			Help: "Triples in the ontology graph after the last merge",
		},
	)

	return m
}

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun records the outcome of one merge run.
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// RecordTranslated counts one translated record of the given kind.
func (m *Metrics) RecordTranslated(kind Kind) {
	if m == nil {
		return
	}
	m.RecordsTranslated.WithLabelValues(string(kind)).Inc()
}

// RecordSkipped counts one skipped record.
func (m *Metrics) RecordSkipped() {
	if m == nil {
		return
	}
	m.RecordsSkipped.Inc()
}

// RecordEdgeSkipped counts one dropped relationship edge.
func (m *Metrics) RecordEdgeSkipped() {
	if m == nil {
		return
	}
	m.EdgesSkipped.Inc()
}

// RecordMergeResult records triple counts after a merge.
func (m *Metrics) RecordMergeResult(added, total int) {
	if m == nil {
		return
	}
	m.TriplesAdded.Add(float64(added))
	m.GraphTriples.Set(float64(total))
}
