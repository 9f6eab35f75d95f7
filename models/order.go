package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods
const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the enumerated order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// UserInfo is the denormalized user snapshot embedded in every order. The
// JSON tags are the wire format used in payment-intent metadata and must not
// change, or in-flight intents stop round-tripping.
type UserInfo struct {
	UserID uuid.UUID `bson:"user_id" json:"userId"`
	Name   string    `bson:"name" json:"name"`
	Email  string    `bson:"email" json:"email"`
	Phone  string    `bson:"phone" json:"phone"`
}

// OrderItem is a line item frozen at checkout: price is the discounted unit
// price at purchase time, immune to later product changes.
type OrderItem struct {
	ProductID uuid.UUID `bson:"product_id" json:"product"`
	Title     string    `bson:"title" json:"title"`
	Price     float64   `bson:"price" json:"price"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Image     string    `bson:"image" json:"image"`
}

// PaymentResult references the external payment intent. Its ID is the
// idempotency key for webhook-sourced orders.
type PaymentResult struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
}

// Order embeds snapshots of user, line-item and address data rather than
// live references so it stays a faithful historical record.
type Order struct {
	ID              uuid.UUID       `bson:"_id" json:"id"`
	UserInfo        UserInfo        `bson:"user_info" json:"userInfo"`
	OrderItems      []OrderItem     `bson:"order_items" json:"orderItems"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string          `bson:"payment_method" json:"paymentMethod"`
	IsPaid          bool            `bson:"is_paid" json:"isPaid"`
	PaidAt          *time.Time      `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `bson:"payment_result,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64         `bson:"items_price" json:"itemsPrice"`
	ShippingPrice   float64         `bson:"shipping_price" json:"shippingPrice"`
	TaxPrice        float64         `bson:"tax_price" json:"taxPrice"`
	TotalPrice      float64         `bson:"total_price" json:"totalPrice"`
	Status          string          `bson:"status" json:"status"`
	ShippedAt       *time.Time      `bson:"shipped_at,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time      `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}
