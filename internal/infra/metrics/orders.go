package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(ordersPlacedTotal, orderAmount) }

var (
	ordersPlacedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders accepted by the storefront, by delivery method.",
		},
		[]string{"delivery"},
	)

	orderAmount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_amount",
			Help:      "Server-side priced order totals.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		},
		[]string{"currency"},
	)
)

func ObserveOrder(delivery, currency string, total float64) {
	ordersPlacedTotal.WithLabelValues(norm(delivery)).Inc()
	orderAmount.WithLabelValues(norm(currency)).Observe(total)
}
