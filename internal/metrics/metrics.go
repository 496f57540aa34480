package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ShopMetrics struct {
	OrdersCreated     prometheus.Counter
	GatewayErrors     prometheus.Counter
	WebhooksProcessed prometheus.Counter
	WebhooksRejected  prometheus.Counter
}

func NewShopMetrics() *ShopMetrics {
	return NewShopMetricsWith(prometheus.DefaultRegisterer)
}

func NewShopMetricsWith(reg prometheus.Registerer) *ShopMetrics {
	m := &ShopMetrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "orders_created_total",
			Help:      "Orders successfully created and persisted.",
		}),
		GatewayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "payment_gateway_errors_total",
			Help:      "Failed calls to the acquiring service.",
		}),
		WebhooksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "webhooks_processed_total",
			Help:      "Payment webhooks that transitioned an order.",
		}),
		WebhooksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Name:      "webhooks_rejected_total",
			Help:      "Webhooks rejected during verification.",
		}),
	}

	reg.MustRegister(m.OrdersCreated, m.GatewayErrors, m.WebhooksProcessed, m.WebhooksRejected)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
