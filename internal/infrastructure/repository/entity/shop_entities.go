package entity

import (
	"time"

	"ecomdrop-shopify-bridge/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoShopConfigDoc represents a shop configuration in MongoDB.
type MongoShopConfigDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Shop                string             `bson:"shop"`
	EcomdropAPIKey      string             `bson:"ecomdropApiKey,omitempty"`
	NewOrderFlowID      string             `bson:"nuevoPedidoFlowId,omitempty"`
	AbandonedCartFlowID string             `bson:"carritoAbandonadoFlowId,omitempty"`
	DropiStoreName      string             `bson:"dropiStoreName,omitempty"`
	DropiCountry        string             `bson:"dropiCountry,omitempty"`
	DropiToken          string             `bson:"dropiToken,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoShopConfigDoc) ToDomain() *domain.ShopConfiguration {
	return &domain.ShopConfiguration{
		ID:                  d.ID.Hex(),
		Shop:                d.Shop,
		EcomdropAPIKey:      d.EcomdropAPIKey,
		NewOrderFlowID:      d.NewOrderFlowID,
		AbandonedCartFlowID: d.AbandonedCartFlowID,
		DropiStoreName:      d.DropiStoreName,
		DropiCountry:        d.DropiCountry,
		DropiToken:          d.DropiToken,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// MongoShopConfigDocFromDomain converts a domain entity to a MongoDB document.
func MongoShopConfigDocFromDomain(config *domain.ShopConfiguration) *MongoShopConfigDoc {
	doc := &MongoShopConfigDoc{
		Shop:                config.Shop,
		EcomdropAPIKey:      config.EcomdropAPIKey,
		NewOrderFlowID:      config.NewOrderFlowID,
		AbandonedCartFlowID: config.AbandonedCartFlowID,
		DropiStoreName:      config.DropiStoreName,
		DropiCountry:        config.DropiCountry,
		DropiToken:          config.DropiToken,
		CreatedAt:           config.CreatedAt,
		UpdatedAt:           config.UpdatedAt,
	}
	if config.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(config.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}

// MongoSessionDoc represents a Shopify app session in MongoDB. The _id is the
// session id the app framework assigns ("offline_<shop>" for offline tokens).
type MongoSessionDoc struct {
	ID          string    `bson:"_id"`
	Shop        string    `bson:"shop"`
	State       string    `bson:"state,omitempty"`
	IsOnline    bool      `bson:"isOnline"`
	Scope       string    `bson:"scope,omitempty"`
	AccessToken string    `bson:"accessToken,omitempty"`
	Expires     time.Time `bson:"expires,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          d.ID,
		Shop:        d.Shop,
		State:       d.State,
		IsOnline:    d.IsOnline,
		Scope:       d.Scope,
		AccessToken: d.AccessToken,
		Expires:     d.Expires,
	}
}

// MongoAssociationDoc represents a product association in MongoDB.
type MongoAssociationDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Shop             string             `bson:"shop"`
	DropiProductID   string             `bson:"dropiProductId"`
	ShopifyProductID string             `bson:"shopifyProductId"`
	ShopifyVariantID string             `bson:"shopifyVariantId,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoAssociationDoc) ToDomain() *domain.ProductAssociation {
	return &domain.ProductAssociation{
		ID:               d.ID.Hex(),
		Shop:             d.Shop,
		DropiProductID:   d.DropiProductID,
		ShopifyProductID: d.ShopifyProductID,
		ShopifyVariantID: d.ShopifyVariantID,
		CreatedAt:        d.CreatedAt,
	}
}

// MongoAIConfigDoc represents an AI assistant configuration in MongoDB.
type MongoAIConfigDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Shop               string             `bson:"shop"`
	AgentName          string             `bson:"agentName,omitempty"`
	CompanyName        string             `bson:"companyName,omitempty"`
	CompanyDescription string             `bson:"companyDescription,omitempty"`
	CompanyPolicies    string             `bson:"companyPolicies,omitempty"`
	PaymentMethods     string             `bson:"paymentMethods,omitempty"`
	FAQ                string             `bson:"faq,omitempty"`
	PostSaleFAQ        string             `bson:"postSaleFaq,omitempty"`
	Rules              string             `bson:"rules,omitempty"`
	Notifications      string             `bson:"notifications,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoAIConfigDoc) ToDomain() *domain.AIConfiguration {
	return &domain.AIConfiguration{
		ID:                 d.ID.Hex(),
		Shop:               d.Shop,
		AgentName:          d.AgentName,
		CompanyName:        d.CompanyName,
		CompanyDescription: d.CompanyDescription,
		CompanyPolicies:    d.CompanyPolicies,
		PaymentMethods:     d.PaymentMethods,
		FAQ:                d.FAQ,
		PostSaleFAQ:        d.PostSaleFAQ,
		Rules:              d.Rules,
		Notifications:      d.Notifications,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// MongoAIConfigDocFromDomain converts a domain entity to a MongoDB document.
func MongoAIConfigDocFromDomain(config *domain.AIConfiguration) *MongoAIConfigDoc {
	doc := &MongoAIConfigDoc{
		Shop:               config.Shop,
		AgentName:          config.AgentName,
		CompanyName:        config.CompanyName,
		CompanyDescription: config.CompanyDescription,
		CompanyPolicies:    config.CompanyPolicies,
		PaymentMethods:     config.PaymentMethods,
		FAQ:                config.FAQ,
		PostSaleFAQ:        config.PostSaleFAQ,
		Rules:              config.Rules,
		Notifications:      config.Notifications,
		CreatedAt:          config.CreatedAt,
		UpdatedAt:          config.UpdatedAt,
	}
	if config.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(config.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}
