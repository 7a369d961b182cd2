package ports

import (
	"context"

	"ecomdrop-shopify-bridge/internal/domain"
)

// EcomdropFlow is one automation flow in an Ecomdrop account.
type EcomdropFlow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// FlowAPI is the outbound surface of the Ecomdrop platform. TriggerFlow is a
// single credentialed POST: a successful accept does not imply completion,
// which arrives later through the callback entry point.
type FlowAPI interface {
	TriggerFlow(ctx context.Context, apiKey, flowID string, event *domain.NormalizedEvent) error
	ListFlows(ctx context.Context, apiKey string) ([]EcomdropFlow, error)
	SaveBotField(ctx context.Context, apiKey, fieldID, value string) error
}

// FlowCache is a TTL cache for flow listings, keyed by API key. Backed by an
// external store so it survives restarts and multi-instance deployment.
type FlowCache interface {
	Get(ctx context.Context, apiKey string) ([]EcomdropFlow, bool, error)
	Set(ctx context.Context, apiKey string, flows []EcomdropFlow) error
	Invalidate(ctx context.Context, apiKey string) error
}
