package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Number of orders created through checkout.",
	})

	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_status_transitions_total",
		Help: "Number of successful order status transitions.",
	}, []string{"status"})

	AdminGateRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_admin_gate_rejections_total",
		Help: "Number of requests rejected by the admin session gate.",
	})
)
