package ecomdrop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Flow listings change rarely; a short TTL keeps the config UI snappy
// without letting a renamed flow go stale for long.
const flowsCacheTTL = 60 * time.Second

// FlowsCache is a Redis-backed TTL cache for flow listings, keyed per API
// key so two merchants never see each other's flows.
type FlowsCache struct {
	rdb *redis.Client
}

// NewFlowsCache creates a flows cache on top of an existing Redis client.
func NewFlowsCache(rdb *redis.Client) *FlowsCache {
	return &FlowsCache{rdb: rdb}
}

func flowsCacheKey(apiKey string) string {
	return "ecomdrop:flows:" + apiKey
}

// Get returns the cached flow listing for an API key. The second return is
// false on a cache miss.
func (c *FlowsCache) Get(ctx context.Context, apiKey string) ([]ports.EcomdropFlow, bool, error) {
	raw, err := c.rdb.Get(ctx, flowsCacheKey(apiKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read flows cache: %w", err)
	}

	var flows []ports.EcomdropFlow
	if err := json.Unmarshal(raw, &flows); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached flows: %w", err)
	}
	return flows, true, nil
}

// Set stores a flow listing with the cache TTL.
func (c *FlowsCache) Set(ctx context.Context, apiKey string, flows []ports.EcomdropFlow) error {
	raw, err := json.Marshal(flows)
	if err != nil {
		return fmt.Errorf("failed to encode flows for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, flowsCacheKey(apiKey), raw, flowsCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to write flows cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing for an API key.
func (c *FlowsCache) Invalidate(ctx context.Context, apiKey string) error {
	if err := c.rdb.Del(ctx, flowsCacheKey(apiKey)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate flows cache: %w", err)
	}
	return nil
}
