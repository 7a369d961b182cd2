package application

import (
	"context"
	"fmt"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// CallbackService processes Ecomdrop completion callbacks: authenticate the
// API key, resolve the order, merge the requested tags onto it.
type CallbackService struct {
	configRepo  ports.ConfigRepository
	sessionRepo ports.SessionRepository
	orderSvc    *OrderService
	logger      zerolog.Logger
}

// NewCallbackService creates a new callback service.
func NewCallbackService(
	configRepo ports.ConfigRepository,
	sessionRepo ports.SessionRepository,
	orderSvc *OrderService,
	logger zerolog.Logger,
) *CallbackService {
	return &CallbackService{
		configRepo:  configRepo,
		sessionRepo: sessionRepo,
		orderSvc:    orderSvc,
		logger:      logger,
	}
}

// CallbackResult echoes what was applied on success.
type CallbackResult struct {
	OrderID string
	Tags    []string
}

// Authenticate maps a presented API key to exactly one shop configuration.
func (s *CallbackService) Authenticate(ctx context.Context, apiKey string) (*domain.ShopConfiguration, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	config, err := s.configRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to look up configuration by API key: %w", err)
	}
	if config == nil {
		return nil, domain.ErrInvalidAPIKey
	}
	return config, nil
}

// Process runs the full callback pipeline and returns the resolved order id
// and applied tags. Errors carry the domain sentinels the HTTP layer maps to
// distinct status codes.
func (s *CallbackService) Process(ctx context.Context, req *domain.CallbackRequest) (*CallbackResult, error) {
	config, err := s.Authenticate(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	shop := req.Shop
	if shop == "" {
		shop = config.Shop
	}
	s.logger.Info().Str("shop", shop).Msg("Processing Ecomdrop callback")

	if req.OrderID == "" && req.OrderName == "" {
		return nil, domain.ErrMissingOrderIdentifier
	}

	tags := req.ResolvedTags()

	session, err := s.sessionRepo.GetOfflineSession(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load session for %s: %w", shop, err)
	}
	if session == nil {
		return nil, domain.ErrNoSession
	}
	if session.AccessToken == "" {
		return nil, domain.ErrNoAccessToken
	}

	orderID, err := s.orderSvc.ResolveOrderID(ctx, shop, session.AccessToken, req.OrderID, req.OrderName)
	if err != nil {
		return nil, err
	}

	if err := s.orderSvc.MergeTags(ctx, shop, session.AccessToken, orderID, tags); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shop", shop).
		Str("orderId", orderID).
		Strs("tags", tags).
		Msg("Callback applied order tags")

	return &CallbackResult{OrderID: orderID, Tags: tags}, nil
}
