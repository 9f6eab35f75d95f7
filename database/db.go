package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client is the process-wide Mongo client, connected once at startup.
type Client struct {
	mongo *mongo.Client
	DB    *mongo.Database
}

// Connect connects to MongoDB using the provided URI and database name.
func Connect(mongoURL, dbName string) (*Client, error) {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURL)

	client, err := mongo.Connect(timeoutCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{mongo: client, DB: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the order workflow relies on: one cart
// per user, lookup of pending unpaid orders, and the payment-intent
// idempotency key.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := c.DB.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("carts index: %w", err)
	}

	if _, err := c.DB.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_info.user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "is_paid", Value: 1}}},
		{Keys: bson.D{{Key: "payment_result.id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}

	if _, err := c.DB.Collection("addresses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("addresses index: %w", err)
	}

	return nil
}

// Close disconnects from MongoDB.
func (c *Client) Close() error {
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.mongo.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
