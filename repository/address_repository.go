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

// AddressRepository defines the data access for the per-user address book.
type AddressRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	FindOldest(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	UnsetDefaults(ctx context.Context, userID uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
}

// MongoAddressRepository implements AddressRepository on MongoDB.
type MongoAddressRepository struct {
	collection *mongo.Collection
}

func NewMongoAddressRepository(db *mongo.Database) *MongoAddressRepository {
	return &MongoAddressRepository{collection: db.Collection("addresses")}
}

func (r *MongoAddressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err = cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *MongoAddressRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (r *MongoAddressRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "is_default": true})
}

// FindOldest returns the earliest-created address, the promotion candidate
// when the default is deleted.
func (r *MongoAddressRepository) FindOldest(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var address models.Address
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *MongoAddressRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *MongoAddressRepository) Create(ctx context.Context, address *models.Address) error {
	now := time.Now().UTC()
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	address.CreatedAt = now
	address.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, address)
	return err
}

func (r *MongoAddressRepository) Update(ctx context.Context, address *models.Address) error {
	address.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": address.ID}, address)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAddressRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UnsetDefaults clears the default flag on every address of the user.
func (r *MongoAddressRepository) UnsetDefaults(ctx context.Context, userID uuid.UUID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_default": false, "updated_at": time.Now().UTC()}},
	)
	return err
}

func (r *MongoAddressRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAddressRepository) findOne(ctx context.Context, filter bson.M) (*models.Address, error) {
	var address models.Address
	err := r.collection.FindOne(ctx, filter).Decode(&address)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}
