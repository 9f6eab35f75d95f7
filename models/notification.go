package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored best-effort message to a user. Delivery beyond
// persistence (push, email) is out of scope; the dispatcher publishes the
// payload to SNS for downstream senders.
type Notification struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	UserID    uuid.UUID `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Category  string    `bson:"category" json:"category"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
