package payments

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	paymentsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Payments created, by method.",
	}, []string{"method"})

	paymentsStatusTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_status_total",
		Help: "Payment status transitions recorded, by method and resulting status.",
	}, []string{"method", "status"})

	apportionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_apportions_total",
		Help: "Payments apportioned across fees.",
	})

	idempotencyReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_idempotency_replays_total",
		Help: "Submissions answered from the idempotency store.",
	})
)

// Metrics returns the collectors of this package for registration in main.
func Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		paymentsCreatedTotal,
		paymentsStatusTotal,
		apportionsTotal,
		idempotencyReplaysTotal,
	}
}
