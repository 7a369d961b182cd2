package repository

import (
	"context"
	"fmt"
	"time"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/repository/entity"
	"ecomdrop-shopify-bridge/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfigRepository implements ConfigRepository using MongoDB.
type MongoConfigRepository struct {
	collection *mongo.Collection
}

// NewMongoConfigRepository creates a new MongoDB shop configuration
// repository and ensures its indexes. The unique index on ecomdropApiKey is
// what makes the callback authentication lookup unambiguous: two shops can
// never share a key.
func NewMongoConfigRepository(db *mongo.Database) ports.ConfigRepository {
	collection := db.Collection("shop_configurations")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shop", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "ecomdropApiKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"ecomdropApiKey": bson.M{"$type": "string", "$gt": ""},
				}),
		},
	}
	_, _ = collection.Indexes().CreateMany(context.Background(), indexes)

	return &MongoConfigRepository{collection: collection}
}

// GetByShop retrieves a configuration by shop domain.
func (r *MongoConfigRepository) GetByShop(ctx context.Context, shop string) (*domain.ShopConfiguration, error) {
	var doc entity.MongoShopConfigDoc
	err := r.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetByAPIKey retrieves a configuration by its Ecomdrop API key.
func (r *MongoConfigRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.ShopConfiguration, error) {
	var doc entity.MongoShopConfigDoc
	err := r.collection.FindOne(ctx, bson.M{"ecomdropApiKey": apiKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration by API key: %w", err)
	}
	return doc.ToDomain(), nil
}

// Upsert creates or updates the shop's configuration.
func (r *MongoConfigRepository) Upsert(ctx context.Context, config *domain.ShopConfiguration) error {
	doc := entity.MongoShopConfigDocFromDomain(config)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	update := bson.M{
		"$set": bson.M{
			"ecomdropApiKey":          doc.EcomdropAPIKey,
			"nuevoPedidoFlowId":       doc.NewOrderFlowID,
			"carritoAbandonadoFlowId": doc.AbandonedCartFlowID,
			"dropiStoreName":          doc.DropiStoreName,
			"dropiCountry":            doc.DropiCountry,
			"dropiToken":              doc.DropiToken,
			"updatedAt":               doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"shop":      doc.Shop,
			"createdAt": doc.UpdatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": config.Shop}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// DeleteByShop removes the shop's configuration. Deleting a missing
// configuration is not an error: the uninstall webhook can fire repeatedly.
func (r *MongoConfigRepository) DeleteByShop(ctx context.Context, shop string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop})
	if err != nil {
		return fmt.Errorf("failed to delete configuration: %w", err)
	}
	return nil
}
