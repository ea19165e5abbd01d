package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsActivatedTotal,
		subscriptionsExpiredTotal,
		subscriptionsActive,
	)
}

var (
	subscriptionsActivatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_activated_total",
			Help: "Subscriptions created through verified payments.",
		},
	)

	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions deactivated by the expiry worker.",
		},
	)

	subscriptionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_active",
			Help: "Current number of active subscriptions by plan.",
		},
		[]string{"plan"},
	)
)

func IncSubscriptionsActivated() { subscriptionsActivatedTotal.Inc() }

func IncSubscriptionsExpired(count int) { subscriptionsExpiredTotal.Add(float64(count)) }

func SetSubscriptionsActive(counts map[string]int) {
	for plan, n := range counts {
		subscriptionsActive.WithLabelValues(norm(plan)).Set(float64(n))
	}
}
