// Package metrics provides the centralized Prometheus metrics reference.
// All metrics are defined in their respective packages (client, cache,
// bulk) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics are
// automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - ftl_requests_total{endpoint, status} (Counter): Upstream requests by endpoint kind and HTTP status
//   - ftl_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint kind
//   - ftl_retries_total{endpoint} (Counter): Retry attempts by endpoint kind
//   - ftl_retry_exhausted_total{endpoint} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - ftl_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - ftl_cache_misses_total{backend} (Counter): Cache misses (absent or expired)
//   - ftl_cache_errors_total{backend, operation} (Counter): Backend errors by operation
//
// Bundle Metrics (pkg/bulk):
//   - ftl_bundles_total{status} (Counter): Pools-bundle requests by outcome (ok, error)
//   - ftl_bundle_duration_seconds (Histogram): Wall time to assemble a complete bundle
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ftl_cache_hits_total[5m])) /
//   (sum(rate(ftl_cache_hits_total[5m])) + sum(rate(ftl_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   sum(rate(ftl_requests_total{status=~"5.."}[5m])) / sum(rate(ftl_requests_total[5m]))
//
//   # P95 Bundle Latency
//   histogram_quantile(0.95, rate(ftl_bundle_duration_seconds_bucket[5m]))
