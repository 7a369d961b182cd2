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

// MongoAIConfigRepository implements AIConfigRepository using MongoDB.
type MongoAIConfigRepository struct {
	collection *mongo.Collection
}

// NewMongoAIConfigRepository creates a new MongoDB AI configuration
// repository.
func NewMongoAIConfigRepository(db *mongo.Database) ports.AIConfigRepository {
	return &MongoAIConfigRepository{
		collection: db.Collection("ai_configurations"),
	}
}

// GetByShop retrieves the shop's AI configuration.
func (r *MongoAIConfigRepository) GetByShop(ctx context.Context, shop string) (*domain.AIConfiguration, error) {
	var doc entity.MongoAIConfigDoc
	err := r.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get AI configuration: %w", err)
	}
	return doc.ToDomain(), nil
}

// Upsert creates or updates the shop's AI configuration.
func (r *MongoAIConfigRepository) Upsert(ctx context.Context, config *domain.AIConfiguration) error {
	doc := entity.MongoAIConfigDocFromDomain(config)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": doc}
	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": config.Shop}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save AI configuration: %w", err)
	}
	return nil
}

// DeleteByShop removes the shop's AI configuration.
func (r *MongoAIConfigRepository) DeleteByShop(ctx context.Context, shop string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop})
	if err != nil {
		return fmt.Errorf("failed to delete AI configuration: %w", err)
	}
	return nil
}
