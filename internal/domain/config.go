package domain

import "time"

// ShopConfiguration holds the per-shop integration settings. The shop domain
// is the unique key; ecomdropApiKey doubles as the lookup key for inbound
// callback authentication and must be unique across shops.
type ShopConfiguration struct {
	ID                  string    `json:"id" bson:"_id"`
	Shop                string    `json:"shop" bson:"shop"`
	EcomdropAPIKey      string    `json:"ecomdropApiKey" bson:"ecomdropApiKey"`
	NewOrderFlowID      string    `json:"nuevoPedidoFlowId" bson:"nuevoPedidoFlowId"`
	AbandonedCartFlowID string    `json:"carritoAbandonadoFlowId" bson:"carritoAbandonadoFlowId"`
	DropiStoreName      string    `json:"dropiStoreName" bson:"dropiStoreName"`
	DropiCountry        string    `json:"dropiCountry" bson:"dropiCountry"`
	DropiToken          string    `json:"dropiToken" bson:"dropiToken"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// AIConfiguration holds the AI assistant settings a merchant fills in through
// the admin UI. The relay pipeline never reads it; it exists here as an owning
// entity that the uninstall purge must clean up.
type AIConfiguration struct {
	ID                 string    `json:"id" bson:"_id"`
	Shop               string    `json:"shop" bson:"shop"`
	AgentName          string    `json:"agentName" bson:"agentName"`
	CompanyName        string    `json:"companyName" bson:"companyName"`
	CompanyDescription string    `json:"companyDescription" bson:"companyDescription"`
	CompanyPolicies    string    `json:"companyPolicies" bson:"companyPolicies"`
	PaymentMethods     string    `json:"paymentMethods" bson:"paymentMethods"`
	FAQ                string    `json:"faq" bson:"faq"`
	PostSaleFAQ        string    `json:"postSaleFaq" bson:"postSaleFaq"`
	Rules              string    `json:"rules" bson:"rules"`
	Notifications      string    `json:"notifications" bson:"notifications"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

// ProductAssociation links a Dropi catalog product to a Shopify
// product/variant. Managed by the admin UI; purged on uninstall.
type ProductAssociation struct {
	ID               string    `json:"id" bson:"_id"`
	Shop             string    `json:"shop" bson:"shop"`
	DropiProductID   string    `json:"dropiProductId" bson:"dropiProductId"`
	ShopifyProductID string    `json:"shopifyProductId" bson:"shopifyProductId"`
	ShopifyVariantID string    `json:"shopifyVariantId" bson:"shopifyVariantId"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}
