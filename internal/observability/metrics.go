// Package observability holds the Prometheus instruments. A nil *Metrics is
// valid everywhere and records nothing, so tests and trimmed-down runs skip
// registration entirely.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	scoresComputed    prometheus.Counter
	enrichmentLookups *prometheus.CounterVec
	scrapes           *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roost_http_requests_total",
			Help: "Total count of HTTP requests processed by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roost_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		scoresComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roost_scores_computed_total",
			Help: "Total apartment score vectors computed.",
		}),
		enrichmentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roost_enrichment_lookups_total",
			Help: "Total neighborhood lookups by outcome (ok, cache, error).",
		}, []string{"outcome"}),
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roost_scrapes_total",
			Help: "Total listing scrape attempts by outcome (ok, error).",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.scoresComputed,
		m.enrichmentLookups,
		m.scrapes,
	)

	return m
}

func (m *Metrics) RecordHTTP(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *Metrics) ScoreComputed() {
	if m == nil {
		return
	}
	m.scoresComputed.Inc()
}

func (m *Metrics) EnrichmentLookup(outcome string) {
	if m == nil {
		return
	}
	m.enrichmentLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Scrape(outcome string) {
	if m == nil {
		return
	}
	m.scrapes.WithLabelValues(outcome).Inc()
}
