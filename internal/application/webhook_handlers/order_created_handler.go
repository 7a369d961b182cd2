package webhook_handlers

import (
	"context"

	"ecomdrop-shopify-bridge/internal/application"
	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// OrderCreatedHandler relays orders/create webhooks to the shop's "new order"
// Ecomdrop flow.
type OrderCreatedHandler struct {
	configRepo  ports.ConfigRepository
	sessionRepo ports.SessionRepository
	flowSvc     *application.FlowService
	orderSvc    *application.OrderService
	callbackURL string
	logger      zerolog.Logger
}

// NewOrderCreatedHandler creates a new orders/create webhook handler.
// callbackURL may be empty when APP_URL is not configured.
func NewOrderCreatedHandler(
	configRepo ports.ConfigRepository,
	sessionRepo ports.SessionRepository,
	flowSvc *application.FlowService,
	orderSvc *application.OrderService,
	callbackURL string,
	logger zerolog.Logger,
) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		configRepo:  configRepo,
		sessionRepo: sessionRepo,
		flowSvc:     flowSvc,
		orderSvc:    orderSvc,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *OrderCreatedHandler) CanHandle(topic string) bool {
	return topic == domain.TopicOrdersCreate
}

// Handle normalizes the order payload and triggers the configured flow.
// Missing configuration is a skip, never an error: the entry point must
// acknowledge the delivery either way.
func (h *OrderCreatedHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	config, err := h.configRepo.GetByShop(ctx, event.Shop)
	if err != nil {
		return err
	}
	if config == nil || config.EcomdropAPIKey == "" {
		h.logger.Info().Str("shop", event.Shop).Msg("No Ecomdrop API key configured, skipping order dispatch")
		return nil
	}
	if config.NewOrderFlowID == "" {
		h.logger.Info().Str("shop", event.Shop).Msg("No new-order flow configured, skipping order dispatch")
		return nil
	}

	order := application.NormalizeOrder(event.Payload, domain.EventOrderCreated)
	order.Shop = event.Shop
	if h.callbackURL != "" {
		order.CallbackURL = h.callbackURL
		order.CallbackAPIKey = config.EcomdropAPIKey
	}

	h.logger.Info().
		Str("shop", event.Shop).
		Str("orderName", order.OrderName).
		Str("flowId", config.NewOrderFlowID).
		Msg("Dispatching order to Ecomdrop flow")

	if err := h.flowSvc.Dispatch(ctx, config.EcomdropAPIKey, config.NewOrderFlowID, order); err != nil {
		h.logger.Error().Err(err).
			Str("shop", event.Shop).
			Str("orderName", order.OrderName).
			Msg("Flow dispatch failed")
		h.tagDispatchError(ctx, event.Shop, order.OrderID)
		return nil
	}

	return nil
}

// tagDispatchError marks the order when the trigger call itself fails. Best
// effort: the flow completion callback will never arrive for this order, so
// the immediate failure is the only signal the merchant gets.
func (h *OrderCreatedHandler) tagDispatchError(ctx context.Context, shop, orderID string) {
	if orderID == "" {
		return
	}
	session, err := h.sessionRepo.GetOfflineSession(ctx, shop)
	if err != nil || session == nil || session.AccessToken == "" {
		h.logger.Warn().Str("shop", shop).Msg("No session available to tag dispatch failure")
		return
	}
	if err := h.orderSvc.MergeTags(ctx, shop, session.AccessToken, orderID, []string{domain.ErrorTag}); err != nil {
		h.logger.Warn().Err(err).
			Str("shop", shop).
			Str("orderId", orderID).
			Msg("Failed to tag order after dispatch failure")
		return
	}
	h.logger.Info().Str("shop", shop).Str("orderId", orderID).Msg("Added error tag to order")
}
