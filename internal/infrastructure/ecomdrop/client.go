package ecomdrop

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/metrics"
	"ecomdrop-shopify-bridge/internal/ports"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://panel.ecomdrop.app/api"

// Client talks to the Ecomdrop panel API. Every request carries the
// per-merchant API key in the X-ACCESS-TOKEN header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an Ecomdrop API client. baseURL may be empty, in which
// case the production panel URL is used.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// TriggerFlow fires a flow with the normalized event as its payload. The
// idempotency key is derived from the event identity so that Shopify webhook
// redeliveries collapse into a single flow execution on the Ecomdrop side.
func (c *Client) TriggerFlow(ctx context.Context, apiKey, flowID string, event *domain.NormalizedEvent) error {
	if flowID == "" {
		return fmt.Errorf("flow id is required")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal flow payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/flows/%s/trigger", c.baseURL, url.PathEscape(flowID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ACCESS-TOKEN", apiKey)
	req.Header.Set("X-Idempotency-Key", idempotencyKey(event))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.FlowDispatches.WithLabelValues(event.EventType, "error").Inc()
		return fmt.Errorf("failed to trigger flow %s: %w", flowID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.FlowDispatches.WithLabelValues(event.EventType, "rejected").Inc()
		snippet := readSnippet(resp.Body)
		return fmt.Errorf("flow trigger returned status %d: %s", resp.StatusCode, snippet)
	}

	metrics.FlowDispatches.WithLabelValues(event.EventType, "ok").Inc()
	c.logger.Info().
		Str("flow_id", flowID).
		Str("shop", event.Shop).
		Str("event_type", event.EventType).
		Msg("Flow triggered")
	return nil
}

// ListFlows fetches the flows available to the account behind the API key.
func (c *Client) ListFlows(ctx context.Context, apiKey string) ([]ports.EcomdropFlow, error) {
	endpoint := c.baseURL + "/accounts/flows"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create flows request: %w", err)
	}
	req.Header.Set("X-ACCESS-TOKEN", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrInvalidAPIKey
	}
	if resp.StatusCode != http.StatusOK {
		snippet := readSnippet(resp.Body)
		return nil, fmt.Errorf("flows listing returned status %d: %s", resp.StatusCode, snippet)
	}

	// The panel wraps the list as {"flows": [...]} but older deployments
	// return a bare array.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flows response: %w", err)
	}

	var envelope struct {
		Flows []ports.EcomdropFlow `json:"flows"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Flows != nil {
		return envelope.Flows, nil
	}

	var flows []ports.EcomdropFlow
	if err := json.Unmarshal(raw, &flows); err != nil {
		return nil, fmt.Errorf("failed to decode flows response: %w", err)
	}
	return flows, nil
}

// SaveBotField writes a value to an Ecomdrop bot field.
func (c *Client) SaveBotField(ctx context.Context, apiKey, fieldID, value string) error {
	if fieldID == "" {
		return fmt.Errorf("bot field id is required")
	}

	form := url.Values{}
	form.Set("value", value)

	endpoint := fmt.Sprintf("%s/accounts/bot_fields/%s", c.baseURL, url.PathEscape(fieldID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create bot field request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-ACCESS-TOKEN", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save bot field %s: %w", fieldID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := readSnippet(resp.Body)
		return fmt.Errorf("bot field save returned status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func idempotencyKey(event *domain.NormalizedEvent) string {
	id := event.OrderID
	if id == "" {
		id = event.DraftOrderID
	}
	sum := sha256.Sum256([]byte(event.Shop + "|" + id + "|" + event.EventType))
	return hex.EncodeToString(sum[:])
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
