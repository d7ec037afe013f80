// Package metrics registers the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts task cache hits by key prefix.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtask_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"entity"},
	)

	// CacheMisses counts task cache misses (absent, expired, or backend
	// failures degraded to misses) by key prefix.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtask_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"entity"},
	)

	// CacheErrors counts cache backend failures that were degraded to
	// store-only operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtask_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"entity", "operation"},
	)

	// HTTPRequestDuration observes request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cloudtask_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// JobsEnqueued counts background jobs submitted to the queue by type.
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtask_jobs_enqueued_total",
			Help: "Total number of background jobs enqueued",
		},
		[]string{"job_type"},
	)
)
