package repository

import (
	"context"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository stores best-effort user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

// MongoNotificationRepository implements NotificationRepository on MongoDB.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, n)
	return err
}
