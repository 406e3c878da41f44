// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exports Prometheus instrumentation for searches and source
// calls. Collectors are observability only; nothing reads them back to make
// decisions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "museum_search"

// Source call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics holds the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Search metrics
	SearchesTotal  *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	ResultsTotal   prometheus.Histogram
	Candidates     prometheus.Histogram

	// Source metrics
	SourceRequests *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	SourceRecords  *prometheus.CounterVec
}

// New registers the collectors with reg. Tests pass a fresh registry so
// repeated construction does not collide.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.SearchesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total searches by detected period presence (period, topical)",
	}, []string{"kind"})

	m.SearchDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "End-to-end search latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	})

	m.ResultsTotal = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of results returned per search",
		Buckets:   []float64{0, 1, 5, 10, 15, 20},
	})

	m.Candidates = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_candidates",
		Help:      "Raw records fetched per search before scoring",
		Buckets:   []float64{0, 10, 25, 50, 100, 200, 400},
	})

	m.SourceRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_requests_total",
		Help:      "Source adapter calls by outcome",
	}, []string{"source", "outcome"})

	m.SourceDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_duration_seconds",
		Help:      "Latency of one source adapter call",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})

	m.SourceRecords = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_records_total",
		Help:      "Raw records returned by each source",
	}, []string{"source"})

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordSource records the outcome of one adapter call.
func (m *Metrics) RecordSource(source, outcome string, d time.Duration, records int) {
	if m == nil {
		return
	}
	m.SourceRequests.WithLabelValues(source, outcome).Inc()
	m.SourceDuration.WithLabelValues(source).Observe(d.Seconds())
	if records > 0 {
		m.SourceRecords.WithLabelValues(source).Add(float64(records))
	}
}

// RecordSearch records one completed search.
func (m *Metrics) RecordSearch(withPeriod bool, candidates, results int, d time.Duration) {
	if m == nil {
		return
	}
	kind := "topical"
	if withPeriod {
		kind = "period"
	}
	m.SearchesTotal.WithLabelValues(kind).Inc()
	m.SearchDuration.Observe(d.Seconds())
	m.Candidates.Observe(float64(candidates))
	m.ResultsTotal.Observe(float64(results))
}
