package main

import (
	"encoding/json"
	"io"
	"net/http"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/metrics"
	"ecomdrop-shopify-bridge/internal/infrastructure/pubsub"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// webhookHandler receives Shopify webhook deliveries. After the signature
// check the delivery is always acknowledged with 200: Shopify retries
// non-200 responses and repeated failures get the subscription removed, so
// processing outcome must never leak into the transport status. The event is
// published to the in-process bus and dispatched in the background.
func webhookHandler(
	verifier ports.WebhookVerifier,
	bus *pubsub.WebhookPubSub,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := r.Header.Get("X-Shopify-Topic")
		if topic == "" {
			metrics.WebhooksReceived.WithLabelValues("unknown", "missing_topic").Inc()
			http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			metrics.WebhooksReceived.WithLabelValues(topic, "read_error").Inc()
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		hmacHeader := r.Header.Get("X-Shopify-Hmac-SHA256")
		if err := verifier.Verify(payload, hmacHeader); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
			metrics.WebhooksReceived.WithLabelValues(topic, "invalid_hmac").Inc()
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		shop := extractShopDomain(payload)
		if shop == "" {
			shop = r.Header.Get("X-Shopify-Shop-Domain")
		}

		bus.Publish(&domain.WebhookEvent{
			Topic:    topic,
			Shop:     shop,
			Payload:  payload,
			Verified: true,
		})

		logger.Info().
			Str("topic", topic).
			Str("shop", shop).
			Msg("Webhook received")
		metrics.WebhooksReceived.WithLabelValues(topic, "accepted").Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"received": "true",
		})
	}
}

// extractShopDomain pulls the shop from the payload. Most topics carry
// shop_domain; app/uninstalled carries the shop resource itself, whose
// domain field is the shop.
func extractShopDomain(payload []byte) string {
	doc := gjson.ParseBytes(payload)
	if shop := doc.Get("domain"); shop.Exists() {
		return shop.String()
	}
	if shop := doc.Get("shop_domain"); shop.Exists() {
		return shop.String()
	}
	return ""
}
