package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnector_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthFailures counts rejected tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_failures_total",
		Help: "Requests rejected by the auth guard",
	}, []string{"reason"})

	// WriteConflicts counts optimistic version conflicts by collection.
	WriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_write_conflicts_total",
		Help: "Document updates retried after a concurrent write",
	}, []string{"collection"})

	// CacheLookups counts cache reads by key kind and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_cache_lookups_total",
		Help: "Cache-aside lookups by kind and result",
	}, []string{"kind", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
