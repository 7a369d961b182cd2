package webhook_handlers

import (
	"context"
	"sync"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler purges every record owned by a shop when the app is
// uninstalled: sessions, configuration, product associations and AI
// configuration.
type AppUninstalledHandler struct {
	configRepo      ports.ConfigRepository
	sessionRepo     ports.SessionRepository
	associationRepo ports.AssociationRepository
	aiConfigRepo    ports.AIConfigRepository
	logger          zerolog.Logger
}

// NewAppUninstalledHandler creates a new app/uninstalled webhook handler.
func NewAppUninstalledHandler(
	configRepo ports.ConfigRepository,
	sessionRepo ports.SessionRepository,
	associationRepo ports.AssociationRepository,
	aiConfigRepo ports.AIConfigRepository,
	logger zerolog.Logger,
) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		configRepo:      configRepo,
		sessionRepo:     sessionRepo,
		associationRepo: associationRepo,
		aiConfigRepo:    aiConfigRepo,
		logger:          logger,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

// Handle deletes the shop's records as independent, concurrent, best-effort
// deletes. The webhook can fire more than once and after data is already
// gone, so a failed or empty delete must not stop the others. All outcomes
// are collected for logging; the entry point acknowledges regardless.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := event.Shop
	h.logger.Info().Str("shop", shop).Msg("Processing app uninstalled webhook, purging shop data")

	purges := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"sessions", h.sessionRepo.DeleteByShop},
		{"configuration", h.configRepo.DeleteByShop},
		{"product_associations", h.associationRepo.DeleteByShop},
		{"ai_configuration", h.aiConfigRepo.DeleteByShop},
	}

	var wg sync.WaitGroup
	failures := make([]error, len(purges))
	for i, purge := range purges {
		wg.Add(1)
		go func(i int, name string, fn func(context.Context, string) error) {
			defer wg.Done()
			if err := fn(ctx, shop); err != nil {
				failures[i] = err
				h.logger.Error().Err(err).
					Str("shop", shop).
					Str("entity", name).
					Msg("Failed to purge shop data")
			}
		}(i, purge.name, purge.fn)
	}
	wg.Wait()

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		h.logger.Warn().
			Str("shop", shop).
			Int("failed", failed).
			Int("total", len(purges)).
			Msg("Uninstall purge completed with failures")
	} else {
		h.logger.Info().Str("shop", shop).Msg("Successfully cleaned up all data for shop")
	}

	// Never escalate: a redelivered uninstall webhook will retry anyway.
	return nil
}
