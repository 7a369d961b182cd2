package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the webhook and callback pipeline. Registered on the default
// registry and served from /metrics.
var (
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_webhooks_received_total",
		Help: "Shopify webhook deliveries received, by topic and verification outcome.",
	}, []string{"topic", "result"})

	WebhooksDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_webhooks_dispatched_total",
		Help: "Verified webhooks handed to a handler, by topic and outcome.",
	}, []string{"topic", "result"})

	FlowDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_flow_dispatches_total",
		Help: "Ecomdrop flow trigger attempts, by event type and outcome.",
	}, []string{"event_type", "result"})

	CallbackRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_callback_requests_total",
		Help: "Ecomdrop callback requests, by HTTP status class returned.",
	}, []string{"status"})

	OrderTagUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_order_tag_updates_total",
		Help: "Order tag merge writes against Shopify, by outcome.",
	}, []string{"result"})
)
