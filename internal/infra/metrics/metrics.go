package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(buildInfo, httpRequestsTotal, httpRequestDuration)
}

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "A constant metric with labels for version and commit hash.",
		},
		[]string{"version", "commit"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}

// ObserveHTTP records one request. route must be the router pattern, not the raw path.
func ObserveHTTP(route, method string, code int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, norm(method), strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route, norm(method)).Observe(seconds)
}
