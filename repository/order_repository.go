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

// OrderRepository defines the data access for orders. Orders are
// append-mostly: after creation only status and its timestamps mutate.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindPendingUnpaid(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
}

// MongoOrderRepository implements OrderRepository on MongoDB.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoOrderRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_info.user_id": userID})
}

func (r *MongoOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_info.user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindPendingUnpaid returns the user's open COD order, used to block
// duplicate pending orders.
func (r *MongoOrderRepository) FindPendingUnpaid(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{
		"user_info.user_id": userID,
		"status":            models.StatusPending,
		"is_paid":           false,
	})
}

// FindByPaymentIntentID looks up an order by its payment-result id, the
// idempotency key for webhook-sourced orders.
func (r *MongoOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"payment_result.id": intentID})
}

// UpdateStatus persists the status and its first-transition timestamps.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":       order.Status,
		"shipped_at":   order.ShippedAt,
		"delivered_at": order.DeliveredAt,
		"updated_at":   order.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
