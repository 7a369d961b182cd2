package ports

import (
	"context"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// OrderAPI covers the commerce-platform order calls the relay needs: exact
// name lookup, tag read and full-list tag write. Implementations must return
// domain.ErrPermissionDenied for protected-customer-data rejections and
// domain.ErrOrderNotFound for empty lookups.
type OrderAPI interface {
	// FindOrderIDByName resolves a human order name (e.g. "#1014") to the
	// order's global id via an exact-name query requesting one result.
	FindOrderIDByName(ctx context.Context, shop, accessToken, orderName string) (string, error)

	// GetOrderTags returns the order's current tag list.
	GetOrderTags(ctx context.Context, shop, accessToken, orderID string) ([]string, error)

	// UpdateOrderTags replaces the order's tag list.
	UpdateOrderTags(ctx context.Context, shop, accessToken, orderID string, tags []string) error
}

// ShopAPI is the lightweight shop read used to validate access tokens.
type ShopAPI interface {
	GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error)
}

// WebhookVerifier checks a webhook delivery's HMAC signature.
type WebhookVerifier interface {
	Verify(payload []byte, hmacHeader string) error
}
