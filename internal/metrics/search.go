// Package metrics exposes Prometheus instrumentation for the index builder,
// the query engine and the MCP HTTP transport.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sercha_notes"

// Index and search Prometheus metrics.
var (
	PagesIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_indexed_total",
			Help:      "Total number of pages processed by the index builder",
		},
		[]string{"result"}, // "indexed" / "skipped" / "failed"
	)

	RecordsWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Total number of search records written to the index store",
		},
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Full index build duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches performed",
		},
		[]string{"scope", "status"}, // scope: "all" / "root"; status: "ok" / "short" / "error"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Query engine latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"scope"},
	)

	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_stale_responses_total",
			Help:      "Search responses discarded because a newer query superseded them",
		},
	)
)

var registerOnce sync.Once

// Register registers the index and search metrics with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PagesIndexedTotal,
			RecordsWrittenTotal,
			IndexBuildDuration,
			SearchesTotal,
			SearchDuration,
			StaleResponsesTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}

// ScopeLabel maps a search scope to a bounded label value.
func ScopeLabel(scope string) string {
	if scope == "" {
		return "all"
	}
	return "root"
}
