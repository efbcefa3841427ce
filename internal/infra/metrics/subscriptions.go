package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(sweepExpiredTotal, sweepSeconds, sweepLastRun) }

var (
	sweepExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "expired_total",
		Help:      "Subscriptions whose status the sweep flipped to expired.",
	})

	sweepSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "expiry_sweep_seconds",
		Help:      "Wall time of one expiry sweep.",
		Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5},
	})

	sweepLastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "subscriptions",
		Name:      "expiry_sweep_last_run_timestamp_seconds",
		Help:      "Unix time the last sweep finished.",
	})
)

func IncSubscriptionsExpired(count int) {
	if count > 0 {
		sweepExpiredTotal.Add(float64(count))
	}
}

// ObserveExpirySweep records the duration and stamps the finish time.
func ObserveExpirySweep(seconds float64) {
	sweepSeconds.Observe(seconds)
	sweepLastRun.Set(float64(time.Now().Unix()))
}
