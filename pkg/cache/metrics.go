package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache operations, labeled by backend.
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_cache_hits_total",
		Help: "Total cache hits by backend",
	}, []string{"backend"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_cache_misses_total",
		Help: "Total cache misses (absent or expired) by backend",
	}, []string{"backend"})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_cache_errors_total",
		Help: "Total cache backend errors by backend and operation",
	}, []string{"backend", "operation"})
)
