package webhook_handlers

import (
	"context"

	"ecomdrop-shopify-bridge/internal/application"
	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// DraftOrderCreatedHandler relays draft_orders/create webhooks (abandoned
// carts and in-progress orders) to the shop's abandoned-cart flow.
type DraftOrderCreatedHandler struct {
	configRepo ports.ConfigRepository
	flowSvc    *application.FlowService
	logger     zerolog.Logger
}

// NewDraftOrderCreatedHandler creates a new draft_orders/create webhook handler.
func NewDraftOrderCreatedHandler(
	configRepo ports.ConfigRepository,
	flowSvc *application.FlowService,
	logger zerolog.Logger,
) *DraftOrderCreatedHandler {
	return &DraftOrderCreatedHandler{
		configRepo: configRepo,
		flowSvc:    flowSvc,
		logger:     logger,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *DraftOrderCreatedHandler) CanHandle(topic string) bool {
	return topic == domain.TopicDraftOrdersCreate
}

// Handle normalizes the draft order payload and triggers the configured
// abandoned-cart flow.
func (h *DraftOrderCreatedHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	config, err := h.configRepo.GetByShop(ctx, event.Shop)
	if err != nil {
		return err
	}
	if config == nil || config.EcomdropAPIKey == "" {
		h.logger.Info().Str("shop", event.Shop).Msg("No Ecomdrop API key configured, skipping draft order dispatch")
		return nil
	}
	if config.AbandonedCartFlowID == "" {
		h.logger.Info().Str("shop", event.Shop).Msg("No abandoned-cart flow configured, skipping draft order dispatch")
		return nil
	}

	draft := application.NormalizeOrder(event.Payload, domain.EventDraftOrderCreated)
	draft.Shop = event.Shop

	h.logger.Info().
		Str("shop", event.Shop).
		Str("draftOrderName", draft.DraftOrderName).
		Str("flowId", config.AbandonedCartFlowID).
		Msg("Dispatching draft order to Ecomdrop flow")

	if err := h.flowSvc.Dispatch(ctx, config.EcomdropAPIKey, config.AbandonedCartFlowID, draft); err != nil {
		h.logger.Error().Err(err).
			Str("shop", event.Shop).
			Str("draftOrderName", draft.DraftOrderName).
			Msg("Flow dispatch failed")
	}
	return nil
}
