package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		licenseCodesGeneratedTotal,
		licenseCodesRevokedTotal,
		licenseActivationsTotal,
		trialsCreatedTotal,
	)
}

var (
	licenseCodesGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_codes_generated_total",
			Help:      "License codes issued, by plan.",
		},
		[]string{"plan"},
	)

	licenseCodesRevokedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_codes_revoked_total",
			Help:      "Unused license codes deleted by an operator.",
		},
	)

	licenseActivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_activations_total",
			Help:      "Activation attempts by outcome.",
		},
		[]string{"result"}, // 'ok', 'not_found', 'already_used', 'expired', 'rate_limited', 'error'
	)

	trialsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_created_total",
			Help:      "Trial subscriptions created.",
		},
	)
)

func IncCodeGenerated(planID string) {
	licenseCodesGeneratedTotal.WithLabelValues(norm(planID)).Inc()
}

func IncCodeRevoked() { licenseCodesRevokedTotal.Inc() }

func IncActivation(result string) {
	licenseActivationsTotal.WithLabelValues(norm(result)).Inc()
}

func IncTrialCreated() { trialsCreatedTotal.Inc() }
