package repository

import (
	"context"
	"errors"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository persists one cart per user.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// MongoCartRepository implements CartRepository on MongoDB.
type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

// GetByUserID returns the user's cart, or ErrNotFound when none exists yet.
func (r *MongoCartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save upserts the cart keyed on user_id; the unique index keeps it
// one-per-user even under concurrent first writes.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
		cart.CreatedAt = now
	}

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"updated_at": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        cart.ID,
			"user_id":    cart.UserID,
			"created_at": cart.CreatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Clear empties the cart. A missing cart is not an error: clearing is called
// from the webhook path where the cart may already be gone.
func (r *MongoCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now().UTC()}},
	)
	return err
}
