package domain

import "errors"

// Error taxonomy for the relay pipeline. The callback entry point maps each
// of these to a distinct status code; webhook entry points log them and
// acknowledge regardless.
var (
	// ErrInvalidAPIKey means the presented callback API key matched no shop.
	ErrInvalidAPIKey = errors.New("Invalid API key")

	// ErrMissingAPIKey means the callback carried no API key at all.
	ErrMissingAPIKey = errors.New("API key is required for authentication")

	// ErrMissingOrderIdentifier means neither orderName nor orderId was given.
	ErrMissingOrderIdentifier = errors.New("orderName (e.g., '#1014') or orderId is required")

	// ErrNoSession means the shop has no stored offline session.
	ErrNoSession = errors.New("No active session found for shop. Please ensure the app is installed.")

	// ErrNoAccessToken means a session exists but carries no access token.
	ErrNoAccessToken = errors.New("No access token available in session")

	// ErrOrderNotFound means the exact-name order lookup returned no result.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPermissionDenied means Shopify rejected the call because the app is
	// not yet approved for protected customer data. Distinct from not-found:
	// the integration is pending approval, the order may well exist.
	ErrPermissionDenied = errors.New("App requires approval for protected customer data. Will work after publication.")
)
