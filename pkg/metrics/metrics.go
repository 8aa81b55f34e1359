package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}

var (
	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"}, // "l1" or "l2"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shortlink_cache_size",
			Help: "Current number of items in cache",
		},
		[]string{"layer"},
	)

	// Request metrics
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortlink_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "method", "status"},
	)

	// Store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortlink_store_operation_duration_seconds",
			Help:    "Link store operation duration in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Domain metrics
	LinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_links_created_total",
			Help: "Total number of links created",
		},
		[]string{"kind"}, // "generated" or "custom"
	)

	CodeCollisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_code_collisions_total",
			Help: "Generated codes rejected because they were already taken",
		},
		[]string{"stage"}, // "exists" (pre-check) or "put" (lost a race)
	)

	GenerationExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlink_generation_exhausted_total",
			Help: "Submissions that ran out of generation attempts",
		},
	)

	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_resolutions_total",
			Help: "Resolve outcomes",
		},
		[]string{"result"}, // "found", "not_found", "error"
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
