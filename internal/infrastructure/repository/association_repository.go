package repository

import (
	"context"
	"fmt"

	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/repository/entity"
	"ecomdrop-shopify-bridge/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAssociationRepository implements AssociationRepository using MongoDB.
type MongoAssociationRepository struct {
	collection *mongo.Collection
}

// NewMongoAssociationRepository creates a new MongoDB product association
// repository.
func NewMongoAssociationRepository(db *mongo.Database) ports.AssociationRepository {
	return &MongoAssociationRepository{
		collection: db.Collection("product_associations"),
	}
}

// ListByShop retrieves every product association for a shop.
func (r *MongoAssociationRepository) ListByShop(ctx context.Context, shop string) ([]*domain.ProductAssociation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"shop": shop})
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	defer cursor.Close(ctx)

	var associations []*domain.ProductAssociation
	for cursor.Next(ctx) {
		var doc entity.MongoAssociationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode association: %w", err)
		}
		associations = append(associations, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return associations, nil
}

// DeleteByShop removes every product association for a shop.
func (r *MongoAssociationRepository) DeleteByShop(ctx context.Context, shop string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop})
	if err != nil {
		return fmt.Errorf("failed to delete associations: %w", err)
	}
	return nil
}
