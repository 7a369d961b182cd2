package domain

import "encoding/json"

// Event type discriminants carried in every dispatched document.
const (
	EventOrderCreated      = "order_created"
	EventDraftOrderCreated = "draft_order_created"
)

// Shopify webhook topics this service subscribes to.
const (
	TopicOrdersCreate      = "orders/create"
	TopicDraftOrdersCreate = "draft_orders/create"
	TopicAppUninstalled    = "app/uninstalled"
)

// NormalizedEvent is the canonical document dispatched to an Ecomdrop flow.
// It is built per webhook invocation and never persisted. Money values stay
// decimal strings end to end.
type NormalizedEvent struct {
	OrderID        string `json:"orderId,omitempty"`
	OrderName      string `json:"orderName,omitempty"`
	OrderNumber    string `json:"orderNumber,omitempty"`
	DraftOrderID   string `json:"draftOrderId,omitempty"`
	DraftOrderName string `json:"draftOrderName,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`

	TotalPrice     string `json:"totalPrice,omitempty"`
	SubtotalPrice  string `json:"subtotalPrice,omitempty"`
	TotalTax       string `json:"totalTax,omitempty"`
	TotalDiscounts string `json:"totalDiscounts,omitempty"`
	Currency       string `json:"currency,omitempty"`

	FinancialStatus   string `json:"financialStatus,omitempty"`
	FulfillmentStatus string `json:"fulfillmentStatus,omitempty"`
	Status            string `json:"status,omitempty"`
	Email             string `json:"email,omitempty"`

	LineItems []LineItem `json:"lineItems"`
	Customer  *Customer  `json:"customer"`

	ShippingAddress *Address `json:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress"`

	Tags           []string        `json:"tags"`
	Note           string          `json:"note"`
	NoteAttributes json.RawMessage `json:"noteAttributes,omitempty"`

	SourceName       string `json:"sourceName,omitempty"`
	ProcessingMethod string `json:"processingMethod,omitempty"`
	CheckoutID       string `json:"checkoutId,omitempty"`
	CheckoutToken    string `json:"checkoutToken,omitempty"`
	Gateway          string `json:"gateway,omitempty"`

	Shop      string `json:"shop"`
	EventType string `json:"eventType"`

	// Set by the webhook handler when APP_URL is configured, so Ecomdrop
	// knows where to send the completion callback.
	CallbackURL    string `json:"callbackUrl,omitempty"`
	CallbackAPIKey string `json:"callbackApiKey,omitempty"`
}

// LineItem is one order/draft-order line, mapped element-wise from the
// webhook payload with input order preserved.
type LineItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Quantity int64  `json:"quantity"`
	// Orders carry "price", draft orders carry "originalUnitPrice";
	// the normalizer fills the one matching the event type.
	Price             string `json:"price,omitempty"`
	OriginalUnitPrice string `json:"originalUnitPrice,omitempty"`
	SKU               string `json:"sku,omitempty"`
	VariantID         string `json:"variantId,omitempty"`
	ProductID         string `json:"productId,omitempty"`
	VariantTitle      string `json:"variantTitle,omitempty"`
	Vendor            string `json:"vendor,omitempty"`
	RequiresShipping  bool   `json:"requiresShipping"`
	Taxable           bool   `json:"taxable"`
	FulfillmentStatus string `json:"fulfillmentStatus,omitempty"`
}

// Customer is the optional customer sub-record of a normalized event.
type Customer struct {
	ID               string `json:"id,omitempty"`
	Email            string `json:"email,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Phone            string `json:"phone,omitempty"`
	AcceptsMarketing bool   `json:"acceptsMarketing"`
	TotalSpent       string `json:"totalSpent,omitempty"`
	OrdersCount      string `json:"ordersCount,omitempty"`
}

// Address is a shipping or billing address sub-record.
type Address struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Address1     string `json:"address1,omitempty"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	Country      string `json:"country,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CountryCode  string `json:"countryCode,omitempty"`
	ProvinceCode string `json:"provinceCode,omitempty"`
}

// WebhookEvent represents a verified webhook delivery in flight.
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}
