package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/pubsub"
	shopifyinfra "ecomdrop-shopify-bridge/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

const testWebhookSecret = "shhh"

func signPayload(payload string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newWebhookTestHandler(t *testing.T) (http.HandlerFunc, *pubsub.WebhookEventChannel) {
	t.Helper()
	bus := pubsub.NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sub := bus.Subscribe(ctx, nil)
	verifier := shopifyinfra.NewWebhookVerifier(testWebhookSecret)
	return webhookHandler(verifier, bus, zerolog.Nop()), sub
}

func postWebhook(h http.HandlerFunc, topic, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(payload))
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", "x.myshopify.com")
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-SHA256", signature)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestWebhookValidSignatureAcknowledged(t *testing.T) {
	h, sub := newWebhookTestHandler(t)
	payload := `{"id": 42, "name": "#1001"}`

	rec := postWebhook(h, domain.TopicOrdersCreate, payload, signPayload(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	select {
	case event := <-sub.Events:
		if event.Topic != domain.TopicOrdersCreate {
			t.Errorf("topic = %q", event.Topic)
		}
		if event.Shop != "x.myshopify.com" {
			t.Errorf("shop = %q", event.Shop)
		}
		if !event.Verified {
			t.Error("event not marked verified")
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached the bus")
	}
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	h, sub := newWebhookTestHandler(t)

	rec := postWebhook(h, domain.TopicOrdersCreate, `{"id":1}`, "bm90IGEgcmVhbCBzaWduYXR1cmU=")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}

	select {
	case event := <-sub.Events:
		t.Fatalf("unverified event published: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	h, _ := newWebhookTestHandler(t)

	rec := postWebhook(h, domain.TopicOrdersCreate, `{"id":1}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestWebhookMissingTopicRejected(t *testing.T) {
	h, _ := newWebhookTestHandler(t)

	payload := `{"id":1}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-SHA256", signPayload(payload))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

// The uninstall payload is the shop resource; its domain field wins over
// the header.
func TestWebhookShopFromPayload(t *testing.T) {
	h, sub := newWebhookTestHandler(t)
	payload := `{"id": 1, "domain": "payload.myshopify.com"}`

	rec := postWebhook(h, domain.TopicAppUninstalled, payload, signPayload(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	select {
	case event := <-sub.Events:
		if event.Shop != "payload.myshopify.com" {
			t.Errorf("shop = %q; want payload domain", event.Shop)
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached the bus")
	}
}
