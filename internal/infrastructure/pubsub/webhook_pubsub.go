package pubsub

import (
	"context"
	"fmt"
	"sync"

	"ecomdrop-shopify-bridge/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookEventChannel is one subscription to the webhook bus.
type WebhookEventChannel struct {
	ID     string
	Filter *WebhookEventFilter
	Events chan *domain.WebhookEvent
	ctx    context.Context
	cancel context.CancelFunc
}

// WebhookEventFilter narrows a subscription to specific topics or a shop.
// A nil filter matches every event.
type WebhookEventFilter struct {
	Topics []string
	Shop   string
}

// WebhookPubSub decouples webhook acknowledgment from processing. The HTTP
// entry point publishes each verified delivery and returns 200 immediately;
// subscribers consume and dispatch in the background. Channels are buffered,
// and a full buffer drops the event rather than blocking the ack path.
type WebhookPubSub struct {
	mu       sync.RWMutex
	channels map[string]*WebhookEventChannel
	logger   zerolog.Logger
	nextID   int64
}

// NewWebhookPubSub creates a new webhook event bus.
func NewWebhookPubSub(logger zerolog.Logger) *WebhookPubSub {
	return &WebhookPubSub{
		channels: make(map[string]*WebhookEventChannel),
		logger:   logger,
	}
}

// Subscribe registers a channel for events matching the filter. The
// subscription is removed when ctx is cancelled.
func (ps *WebhookPubSub) Subscribe(ctx context.Context, filter *WebhookEventFilter) *WebhookEventChannel {
	subCtx, cancel := context.WithCancel(ctx)

	ps.mu.Lock()
	ps.nextID++
	channel := &WebhookEventChannel{
		ID:     fmt.Sprintf("subscriber-%d", ps.nextID),
		Filter: filter,
		Events: make(chan *domain.WebhookEvent, 64),
		ctx:    subCtx,
		cancel: cancel,
	}
	ps.channels[channel.ID] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", channel.ID).
		Msg("Webhook subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(channel.ID)
	}()

	return channel
}

// Unsubscribe removes a subscription and closes its channel.
func (ps *WebhookPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Webhook subscription removed")
}

// Publish hands a verified event to every matching subscriber without
// blocking. Events dropped on a full buffer are logged; Shopify has already
// been acknowledged at this point, so there is no retry.
func (ps *WebhookPubSub) Publish(event *domain.WebhookEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
		case <-channel.ctx.Done():
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Subscriber buffer full, dropping webhook event")
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (ps *WebhookPubSub) SubscriberCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.channels)
}

func matchesFilter(event *domain.WebhookEvent, filter *WebhookEventFilter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Topics) > 0 {
		found := false
		for _, topic := range filter.Topics {
			if event.Topic == topic {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Shop != "" && event.Shop != filter.Shop {
		return false
	}
	return true
}
