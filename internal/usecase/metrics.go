package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_checkouts_total",
			Help: "Checkout attempts by outcome",
		},
		[]string{"outcome"},
	)

	webhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_payment_webhooks_total",
			Help: "Processed payment webhooks by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_order_status_transitions_total",
			Help: "Applied order status transitions",
		},
		[]string{"from", "to"},
	)
)
