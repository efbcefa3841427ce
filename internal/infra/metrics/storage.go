package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolConns, cacheRequestsTotal) }

var (
	dbPoolConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Postgres pool connections by state.",
		},
		[]string{"state"},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Redis read-through lookups by cache and result (hit, miss, error).",
		},
		[]string{"cache", "result"},
	)
)

// SetDBPoolStats publishes a pgxpool.Stat snapshot.
func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolConns.WithLabelValues("total").Set(float64(total))
	dbPoolConns.WithLabelValues("idle").Set(float64(idle))
	dbPoolConns.WithLabelValues("acquired").Set(float64(inUse))
}

func IncCacheRequest(cache, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cache), norm(result)).Inc()
}
