package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Retrieval pipeline metrics.
var (
	DirectoryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_cache_total",
			Help:      "Expanded directory cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DirectoryLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_loads_total",
			Help:      "Directory loads from the source by outcome",
		},
		[]string{"status"}, // "success" / "error"
	)

	DirectoryRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "directory_records",
			Help:      "Name-variant records in the last loaded directory",
		},
	)

	RetrievalFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_fallbacks_total",
			Help:      "Filtered searches that returned nothing and fell back to unfiltered search",
		},
	)

	RetrievalEmptyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_empty_total",
			Help:      "Retrievals that found no records at all",
		},
	)

	RetrievalRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_retries_total",
			Help:      "Retried external calls by operation",
		},
		[]string{"operation"}, // "embed" / "search"
	)

	RetrievalCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_candidates",
			Help:      "Fuzzy-matched professor candidates per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

var registerRetrievalOnce sync.Once

// RegisterRetrievalMetrics registers the retrieval pipeline collectors. Safe to call more than once.
func RegisterRetrievalMetrics() {
	registerRetrievalOnce.Do(func() {
		prometheus.MustRegister(
			DirectoryCacheTotal,
			DirectoryLoadsTotal,
			DirectoryRecords,
			RetrievalFallbacksTotal,
			RetrievalEmptyTotal,
			RetrievalRetriesTotal,
			RetrievalCandidates,
		)
	})
}
