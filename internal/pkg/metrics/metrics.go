package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Synchronization metrics
	SyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "sync",
		Name:      "applied_total",
		Help:      "Total viewport synchronizations applied to the opposite map",
	}, []string{"source", "kind"})

	SyncSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "sync",
		Name:      "suppressed_total",
		Help:      "Events ignored because the map was being fitted programmatically",
	}, []string{"map"})

	SyncErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "sync",
		Name:      "errors_total",
		Help:      "Events whose handler returned an error",
	}, []string{"kind"})

	// Search metrics
	SearchPlaces = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "search",
		Name:      "places_total",
		Help:      "Places received from search, by outcome",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "antipodes",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Place search latency including cache lookup",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	StaleSearches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "search",
		Name:      "stale_results_total",
		Help:      "Search results applied after a newer search had been issued",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antipodes",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// WriteTextfile dumps the default registry in the node_exporter textfile
// format. The file is written atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
