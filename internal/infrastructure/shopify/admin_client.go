package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/metrics"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

const defaultAPIVersion = "2025-10"

// graphQLError is one error entry in a Shopify Admin GraphQL response.
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// AdminClient talks to the Shopify Admin GraphQL API. The go-shopify library
// does not cover GraphQL order queries, so requests go over HTTP directly.
type AdminClient struct {
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger

	// endpoint overrides the per-shop URL; used by tests.
	endpoint string
}

// NewAdminClient creates a new Admin GraphQL client.
func NewAdminClient(logger zerolog.Logger) ports.OrderAPI {
	return &AdminClient{
		apiVersion: defaultAPIVersion,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// NewAdminClientWithEndpoint creates a client pinned to a fixed endpoint.
func NewAdminClientWithEndpoint(endpoint string, logger zerolog.Logger) ports.OrderAPI {
	return &AdminClient{
		apiVersion: defaultAPIVersion,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		endpoint:   endpoint,
	}
}

func (c *AdminClient) graphqlEndpoint(shop string) string {
	if c.endpoint != "" {
		return c.endpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)
}

// post executes one GraphQL call and decodes the data portion into out.
// Top-level GraphQL errors are returned as a Go error, with protected-data
// rejections mapped to domain.ErrPermissionDenied.
func (c *AdminClient) post(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlEndpoint(shop), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode GraphQL response (status %d): %w", resp.StatusCode, err)
	}

	if len(envelope.Errors) > 0 {
		if isProtectedDataError(envelope.Errors) {
			c.logger.Warn().Str("shop", shop).Msg("App not approved for protected customer data")
			return domain.ErrPermissionDenied
		}
		return fmt.Errorf("GraphQL error: %s", envelope.Errors[0].Message)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GraphQL request returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode GraphQL data: %w", err)
		}
	}
	return nil
}

func isProtectedDataError(errs []graphQLError) bool {
	for _, e := range errs {
		if e.Extensions.Code == "ACCESS_DENIED" || strings.Contains(strings.ToLower(e.Message), "protected") {
			return true
		}
	}
	return false
}

const findOrderByNameQuery = `query GetOrderByName($name: String!) {
  orders(first: 1, query: $name) {
    edges {
      node {
        id
        name
      }
    }
  }
}`

// FindOrderIDByName resolves a human order name to the order's global id via
// an exact-name query.
func (c *AdminClient) FindOrderIDByName(ctx context.Context, shop, accessToken, orderName string) (string, error) {
	var data struct {
		Orders struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}

	variables := map[string]interface{}{"name": "name:" + orderName}
	if err := c.post(ctx, shop, accessToken, findOrderByNameQuery, variables, &data); err != nil {
		return "", err
	}

	if len(data.Orders.Edges) == 0 {
		return "", domain.ErrOrderNotFound
	}
	return data.Orders.Edges[0].Node.ID, nil
}

const getOrderTagsQuery = `query GetOrderTags($id: ID!) {
  order(id: $id) {
    id
    tags
  }
}`

// GetOrderTags returns the order's current tag list.
func (c *AdminClient) GetOrderTags(ctx context.Context, shop, accessToken, orderID string) ([]string, error) {
	var data struct {
		Order *struct {
			ID   string   `json:"id"`
			Tags []string `json:"tags"`
		} `json:"order"`
	}

	variables := map[string]interface{}{"id": orderID}
	if err := c.post(ctx, shop, accessToken, getOrderTagsQuery, variables, &data); err != nil {
		return nil, err
	}

	if data.Order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return data.Order.Tags, nil
}

const updateOrderTagsMutation = `mutation UpdateOrderTags($id: ID!, $tags: [String!]!) {
  orderUpdate(input: { id: $id, tags: $tags }) {
    order {
      id
      tags
    }
    userErrors {
      field
      message
    }
  }
}`

// UpdateOrderTags replaces the order's tag list.
func (c *AdminClient) UpdateOrderTags(ctx context.Context, shop, accessToken, orderID string, tags []string) error {
	var data struct {
		OrderUpdate struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"orderUpdate"`
	}

	variables := map[string]interface{}{"id": orderID, "tags": tags}
	if err := c.post(ctx, shop, accessToken, updateOrderTagsMutation, variables, &data); err != nil {
		metrics.OrderTagUpdates.WithLabelValues("error").Inc()
		return err
	}

	if errs := data.OrderUpdate.UserErrors; len(errs) > 0 {
		metrics.OrderTagUpdates.WithLabelValues("rejected").Inc()
		for _, e := range errs {
			if strings.Contains(strings.ToLower(e.Message), "protected") {
				return domain.ErrPermissionDenied
			}
		}
		return fmt.Errorf("orderUpdate rejected: %s", errs[0].Message)
	}
	metrics.OrderTagUpdates.WithLabelValues("ok").Inc()
	return nil
}
