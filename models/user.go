package models

import (
	"time"

	"github.com/google/uuid"
)

// User holds the account fields the checkout flow reads. Registration and
// profile management live behind the auth boundary and are not served here.
type User struct {
	ID               uuid.UUID `bson:"_id" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role             string    `bson:"role" json:"role"`
	StripeCustomerID string    `bson:"stripe_customer_id,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
