package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a reserve would take stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the catalog reads and the single stock write the
// order workflow needs.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Find(ctx context.Context, page, limit int) ([]models.Product, int64, error)
	ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

// MongoProductRepository implements ProductRepository on MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) Find(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ReserveStock atomically decrements stock and increments units_sold, but
// only when stock covers the requested quantity. The conditional filter makes
// the check-and-decrement a single update, so two concurrent checkouts for
// the last unit cannot both succeed.
func (r *MongoProductRepository) ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}

	filter := bson.M{
		"_id":   productID,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity, "units_sold": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if result.MatchedCount == 0 {
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": productID})
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
