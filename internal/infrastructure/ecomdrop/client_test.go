package ecomdrop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/rs/zerolog"
)

func TestTriggerFlowRequest(t *testing.T) {
	var gotPath, gotToken, gotIdempotency string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-ACCESS-TOKEN")
		gotIdempotency = r.Header.Get("X-Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	event := &domain.NormalizedEvent{
		Shop:      "x.myshopify.com",
		OrderID:   "42",
		OrderName: "#1001",
		EventType: domain.EventOrderCreated,
	}
	if err := c.TriggerFlow(context.Background(), "k1", "flow-7", event); err != nil {
		t.Fatalf("TriggerFlow: %v", err)
	}

	if gotPath != "/flows/flow-7/trigger" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "k1" {
		t.Errorf("X-ACCESS-TOKEN = %q", gotToken)
	}
	if gotIdempotency == "" {
		t.Error("missing X-Idempotency-Key")
	}
	if gotBody["orderName"] != "#1001" {
		t.Errorf("body orderName = %v", gotBody["orderName"])
	}
}

// Redeliveries of the same event must carry the same idempotency key;
// different events must not.
func TestIdempotencyKeyStable(t *testing.T) {
	a := &domain.NormalizedEvent{Shop: "x", OrderID: "42", EventType: domain.EventOrderCreated}
	b := &domain.NormalizedEvent{Shop: "x", OrderID: "42", EventType: domain.EventOrderCreated}
	c := &domain.NormalizedEvent{Shop: "x", OrderID: "43", EventType: domain.EventOrderCreated}

	if idempotencyKey(a) != idempotencyKey(b) {
		t.Error("same event produced different keys")
	}
	if idempotencyKey(a) == idempotencyKey(c) {
		t.Error("different orders produced the same key")
	}

	draft := &domain.NormalizedEvent{Shop: "x", DraftOrderID: "42", EventType: domain.EventDraftOrderCreated}
	if idempotencyKey(draft) == idempotencyKey(a) {
		t.Error("draft and order events produced the same key")
	}
}

func TestTriggerFlowRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	err := c.TriggerFlow(context.Background(), "k1", "flow-7", &domain.NormalizedEvent{})
	if err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestTriggerFlowRequiresFlowID(t *testing.T) {
	c := NewClient("http://unused", zerolog.Nop())
	if err := c.TriggerFlow(context.Background(), "k1", "", &domain.NormalizedEvent{}); err == nil {
		t.Fatal("expected error for empty flow id")
	}
}

func TestListFlowsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/flows" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"flows":[{"id":"1","name":"Welcome"},{"id":"2","name":"Cart"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	flows, err := c.ListFlows(context.Background(), "k1")
	if err != nil {
		t.Fatalf("ListFlows: %v", err)
	}
	if len(flows) != 2 || flows[0].Name != "Welcome" {
		t.Errorf("flows = %v", flows)
	}
}

func TestListFlowsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","name":"Welcome"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	flows, err := c.ListFlows(context.Background(), "k1")
	if err != nil {
		t.Fatalf("ListFlows: %v", err)
	}
	if len(flows) != 1 {
		t.Errorf("flows = %v", flows)
	}
}

func TestListFlowsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	_, err := c.ListFlows(context.Background(), "bad")
	if err != domain.ErrInvalidAPIKey {
		t.Errorf("err = %v; want ErrInvalidAPIKey", err)
	}
}

func TestSaveBotFieldForm(t *testing.T) {
	var gotPath, gotValue, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotValue = r.PostFormValue("value")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	if err := c.SaveBotField(context.Background(), "k1", "640597", "dropi-token"); err != nil {
		t.Fatalf("SaveBotField: %v", err)
	}
	if gotPath != "/accounts/bot_fields/640597" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotValue != "dropi-token" {
		t.Errorf("value = %q", gotValue)
	}
}
