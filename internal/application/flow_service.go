package application

import (
	"context"
	"fmt"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// FlowService dispatches normalized events to Ecomdrop flows and serves the
// account's flow listing through a TTL cache.
type FlowService struct {
	flows  ports.FlowAPI
	cache  ports.FlowCache
	logger zerolog.Logger
}

// NewFlowService creates a new flow service.
func NewFlowService(flows ports.FlowAPI, cache ports.FlowCache, logger zerolog.Logger) *FlowService {
	return &FlowService{
		flows:  flows,
		cache:  cache,
		logger: logger,
	}
}

// Dispatch sends one normalized event to the given flow. Fire-and-forget with
// respect to flow completion: only the immediate accept/reject of the trigger
// call is reported. Webhook retries will re-dispatch; the trigger carries a
// deterministic idempotency key so the platform can deduplicate.
func (s *FlowService) Dispatch(ctx context.Context, apiKey, flowID string, event *domain.NormalizedEvent) error {
	if err := s.flows.TriggerFlow(ctx, apiKey, flowID, event); err != nil {
		return fmt.Errorf("failed to trigger flow %s: %w", flowID, err)
	}

	s.logger.Info().
		Str("shop", event.Shop).
		Str("flowId", flowID).
		Str("eventType", event.EventType).
		Msg("Triggered Ecomdrop flow")
	return nil
}

// ListFlows returns the account's flows, served from cache when fresh.
func (s *FlowService) ListFlows(ctx context.Context, apiKey string) ([]ports.EcomdropFlow, error) {
	if s.cache != nil {
		flows, ok, err := s.cache.Get(ctx, apiKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Flow cache read failed, falling back to API")
		} else if ok {
			return flows, nil
		}
	}

	flows, err := s.flows.ListFlows(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, apiKey, flows); err != nil {
			s.logger.Warn().Err(err).Msg("Flow cache write failed")
		}
	}
	return flows, nil
}

// SyncFlows drops the cached listing so the next read hits the API.
func (s *FlowService) SyncFlows(ctx context.Context, apiKey string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, apiKey); err != nil {
		return fmt.Errorf("failed to invalidate flow cache: %w", err)
	}
	return nil
}
