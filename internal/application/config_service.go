package application

import (
	"context"
	"fmt"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// dropiCountryFields maps a Dropi country code to the Ecomdrop bot field that
// stores the integration token for that country.
var dropiCountryFields = map[string]string{
	"CO": "640597",
	"EC": "805359",
	"CL": "665134",
	"GT": "747995",
	"MX": "641097",
	"PA": "742965",
	"PE": "142979",
	"PY": "240677",
}

// ConfigService manages per-shop integration settings on behalf of the admin
// UI's action handlers.
type ConfigService struct {
	configRepo ports.ConfigRepository
	flows      ports.FlowAPI
	flowSvc    *FlowService
	logger     zerolog.Logger
}

// NewConfigService creates a new configuration service.
func NewConfigService(
	configRepo ports.ConfigRepository,
	flows ports.FlowAPI,
	flowSvc *FlowService,
	logger zerolog.Logger,
) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		flows:      flows,
		flowSvc:    flowSvc,
		logger:     logger,
	}
}

// GetConfiguration returns the shop's configuration, or nil when none exists.
func (s *ConfigService) GetConfiguration(ctx context.Context, shop string) (*domain.ShopConfiguration, error) {
	return s.configRepo.GetByShop(ctx, shop)
}

// SaveAPIKey stores the Ecomdrop API key for a shop, creating the
// configuration if needed.
func (s *ConfigService) SaveAPIKey(ctx context.Context, shop, apiKey string) (*domain.ShopConfiguration, error) {
	config, err := s.loadOrNew(ctx, shop)
	if err != nil {
		return nil, err
	}
	config.EcomdropAPIKey = apiKey
	if err := s.configRepo.Upsert(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save API key: %w", err)
	}
	s.logger.Info().Str("shop", shop).Msg("Saved Ecomdrop API key")
	return config, nil
}

// SaveFlows stores the selected flow ids for each event type. An empty id
// disables dispatch for that event type.
func (s *ConfigService) SaveFlows(ctx context.Context, shop, newOrderFlowID, abandonedCartFlowID string) (*domain.ShopConfiguration, error) {
	config, err := s.loadOrNew(ctx, shop)
	if err != nil {
		return nil, err
	}
	config.NewOrderFlowID = newOrderFlowID
	config.AbandonedCartFlowID = abandonedCartFlowID
	if err := s.configRepo.Upsert(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save flow selection: %w", err)
	}
	s.logger.Info().
		Str("shop", shop).
		Str("newOrderFlowId", newOrderFlowID).
		Str("abandonedCartFlowId", abandonedCartFlowID).
		Msg("Saved flow selection")
	return config, nil
}

// SaveDropiIntegration validates the Dropi token against Ecomdrop's bot field
// for the country, then stores the Dropi settings.
func (s *ConfigService) SaveDropiIntegration(ctx context.Context, shop, storeName, country, token string) (*domain.ShopConfiguration, error) {
	config, err := s.configRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if config == nil || config.EcomdropAPIKey == "" {
		return nil, fmt.Errorf("Ecomdrop API key must be configured before connecting Dropi")
	}

	fieldID, ok := dropiCountryFields[country]
	if !ok {
		return nil, fmt.Errorf("unsupported Dropi country: %s", country)
	}

	if err := s.flows.SaveBotField(ctx, config.EcomdropAPIKey, fieldID, token); err != nil {
		return nil, fmt.Errorf("failed to validate Dropi integration: %w", err)
	}

	config.DropiStoreName = storeName
	config.DropiCountry = country
	config.DropiToken = token
	if err := s.configRepo.Upsert(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save Dropi integration: %w", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Str("country", country).
		Msg("Saved Dropi integration")
	return config, nil
}

// ListFlows returns the shop's Ecomdrop flows, using the cached listing.
func (s *ConfigService) ListFlows(ctx context.Context, shop string) ([]ports.EcomdropFlow, error) {
	config, err := s.configRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if config == nil || config.EcomdropAPIKey == "" {
		return nil, nil
	}
	return s.flowSvc.ListFlows(ctx, config.EcomdropAPIKey)
}

// SyncFlows drops the cached flow listing for the shop's API key.
func (s *ConfigService) SyncFlows(ctx context.Context, shop string) error {
	config, err := s.configRepo.GetByShop(ctx, shop)
	if err != nil {
		return err
	}
	if config == nil || config.EcomdropAPIKey == "" {
		return nil
	}
	return s.flowSvc.SyncFlows(ctx, config.EcomdropAPIKey)
}

func (s *ConfigService) loadOrNew(ctx context.Context, shop string) (*domain.ShopConfiguration, error) {
	config, err := s.configRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &domain.ShopConfiguration{Shop: shop}
	}
	return config, nil
}
