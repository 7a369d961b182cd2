package shopify

import (
	"context"
	"fmt"

	"ecomdrop-shopify-bridge/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// client adapts the go-shopify library for the REST surface this service
// uses: shop reads for token validation.
type client struct {
	app goshopify.App
}

// NewClient creates a new Shopify REST client adapter.
func NewClient(apiKey, apiSecret string) ports.ShopAPI {
	return &client{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
	}
}

func (c *client) createClient(shopDomain, accessToken string) (*goshopify.Client, error) {
	gc, err := goshopify.NewClient(c.app, shopDomain, accessToken,
		goshopify.WithVersion(defaultAPIVersion),
		goshopify.WithRetry(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return gc, nil
}

// GetShop fetches the shop resource, the lightest authenticated call the
// Admin API offers.
func (c *client) GetShop(ctx context.Context, shopDomain string, accessToken string) (*goshopify.Shop, error) {
	gc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	shop, err := gc.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}
