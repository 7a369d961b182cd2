package pubsub

import (
	"context"
	"testing"
	"time"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/rs/zerolog"
)

func TestPublishReachesSubscriber(t *testing.T) {
	ps := NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := ps.Subscribe(ctx, nil)
	ps.Publish(&domain.WebhookEvent{Topic: domain.TopicOrdersCreate, Shop: "x"})

	select {
	case event := <-sub.Events:
		if event.Topic != domain.TopicOrdersCreate {
			t.Errorf("topic = %q", event.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestTopicFilter(t *testing.T) {
	ps := NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := ps.Subscribe(ctx, &WebhookEventFilter{Topics: []string{domain.TopicOrdersCreate}})
	ps.Publish(&domain.WebhookEvent{Topic: "products/update", Shop: "x"})
	ps.Publish(&domain.WebhookEvent{Topic: domain.TopicOrdersCreate, Shop: "x"})

	select {
	case event := <-sub.Events:
		if event.Topic != domain.TopicOrdersCreate {
			t.Errorf("filter let through %q", event.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("matching event not delivered")
	}

	select {
	case event := <-sub.Events:
		t.Errorf("unexpected second event %q", event.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestShopFilter(t *testing.T) {
	ps := NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := ps.Subscribe(ctx, &WebhookEventFilter{Shop: "a.myshopify.com"})
	ps.Publish(&domain.WebhookEvent{Topic: domain.TopicOrdersCreate, Shop: "b.myshopify.com"})

	select {
	case event := <-sub.Events:
		t.Errorf("shop filter let through %q", event.Shop)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	ps := NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	ps.Subscribe(ctx, nil)
	if ps.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d", ps.SubscriberCount())
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for ps.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// A slow subscriber must not block Publish.
func TestPublishNonBlockingWhenBufferFull(t *testing.T) {
	ps := NewWebhookPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps.Subscribe(ctx, nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			ps.Publish(&domain.WebhookEvent{Topic: domain.TopicOrdersCreate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}
}
