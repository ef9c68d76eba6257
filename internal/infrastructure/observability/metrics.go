package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "care_connect"

var (
	// HTTPRequestDuration observes request latency by route pattern
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsTotal counts requests by route pattern
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SearchesTotal counts provider searches by record kind and outcome
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Nearest-provider searches by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// SearchResults observes how many providers each search returned
	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of ranked providers returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"kind"},
	)

	// SkippedRecordsTotal counts stored records dropped for unusable coordinates
	SkippedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_skipped_records_total",
			Help:      "Records skipped during ranking because of invalid coordinates",
		},
		[]string{"kind"},
	)

	// CacheRequestsTotal counts read-through cache lookups
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Read-through cache lookups by entity and result",
		},
		[]string{"entity", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		SearchesTotal,
		SearchResults,
		SkippedRecordsTotal,
		CacheRequestsTotal,
	)
}

// RecordCacheHit records a cache hit
func RecordCacheHit(entity string) {
	CacheRequestsTotal.WithLabelValues(entity, "hit").Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(entity string) {
	CacheRequestsTotal.WithLabelValues(entity, "miss").Inc()
}
