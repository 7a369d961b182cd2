package shopify

import (
	"context"
	"fmt"
	"strings"

	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// TokenManager validates stored Shopify access tokens. Shopify offline
// tokens don't expire but can be revoked; a lightweight shop read tells the
// two cases apart before the callback path spends real API calls on a dead
// token.
type TokenManager struct {
	shops  ports.ShopAPI
	logger zerolog.Logger
}

// NewTokenManager creates a new token manager.
func NewTokenManager(shops ports.ShopAPI, logger zerolog.Logger) *TokenManager {
	return &TokenManager{
		shops:  shops,
		logger: logger,
	}
}

// ValidateToken checks whether a token is still accepted by Shopify. Network
// and non-auth errors are treated as valid: the token should not be declared
// dead on a flaky connection.
func (tm *TokenManager) ValidateToken(ctx context.Context, shopDomain, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token is empty")
	}
	if shopDomain == "" {
		return false, fmt.Errorf("shop domain is required for token validation")
	}

	_, err := tm.shops.GetShop(ctx, shopDomain, token)
	if err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "401") ||
			strings.Contains(errStr, "unauthorized") ||
			strings.Contains(errStr, "invalid token") ||
			strings.Contains(errStr, "forbidden") {
			tm.logger.Warn().
				Str("shop", shopDomain).
				Msg("Token validation failed: token is invalid or revoked")
			return false, nil
		}

		tm.logger.Warn().
			Err(err).
			Str("shop", shopDomain).
			Msg("Token validation encountered an error (assuming token is valid)")
		return true, nil
	}

	return true, nil
}
