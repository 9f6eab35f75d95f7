package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem references a live product; prices are always re-resolved against
// the catalog at snapshot time, never stored here.
type CartItem struct {
	ProductID uuid.UUID `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
}

// Cart is one-per-user (unique index on user_id).
type Cart struct {
	ID        uuid.UUID  `bson:"_id" json:"id"`
	UserID    uuid.UUID  `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
