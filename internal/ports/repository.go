package ports

import (
	"context"

	"ecomdrop-shopify-bridge/internal/domain"
)

// ConfigRepository persists per-shop integration settings. GetByAPIKey is the
// callback authentication lookup; the implementation must enforce uniqueness
// of ecomdropApiKey across shops.
type ConfigRepository interface {
	GetByShop(ctx context.Context, shop string) (*domain.ShopConfiguration, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.ShopConfiguration, error)
	Upsert(ctx context.Context, config *domain.ShopConfiguration) error
	DeleteByShop(ctx context.Context, shop string) error
}

// SessionRepository reads and deletes Shopify app sessions. Sessions are
// created by the app framework, never by this service.
type SessionRepository interface {
	GetOfflineSession(ctx context.Context, shop string) (*domain.Session, error)
	DeleteByShop(ctx context.Context, shop string) error
}

// AssociationRepository persists Dropi-to-Shopify product associations.
type AssociationRepository interface {
	ListByShop(ctx context.Context, shop string) ([]*domain.ProductAssociation, error)
	DeleteByShop(ctx context.Context, shop string) error
}

// AIConfigRepository persists the AI assistant configuration.
type AIConfigRepository interface {
	GetByShop(ctx context.Context, shop string) (*domain.AIConfiguration, error)
	Upsert(ctx context.Context, config *domain.AIConfiguration) error
	DeleteByShop(ctx context.Context, shop string) error
}
