package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a per-user shipping address. At most MaxAddressesPerUser per
// user, exactly one marked default at any time.
type Address struct {
	ID              uuid.UUID `bson:"_id" json:"id"`
	UserID          uuid.UUID `bson:"user_id" json:"user_id"`
	AddressLine1    string    `bson:"address_line1" json:"address_line1"`
	AddressLine2    string    `bson:"address_line2,omitempty" json:"address_line2,omitempty"`
	City            string    `bson:"city" json:"city"`
	State           string    `bson:"state" json:"state"`
	PostalCode      string    `bson:"postal_code" json:"postal_code"`
	Country         string    `bson:"country" json:"country"`
	OptionalRemarks string    `bson:"optional_remarks,omitempty" json:"optional_remarks,omitempty"`
	IsDefault       bool      `bson:"is_default" json:"is_default"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// MaxAddressesPerUser caps the address book size.
const MaxAddressesPerUser = 5

// DefaultCountry fills Country when the client omits it.
const DefaultCountry = "Nepal"

// ShippingAddress is the snapshot embedded in orders and in payment-intent
// metadata. Frozen at creation time.
type ShippingAddress struct {
	AddressLine1    string `bson:"address_line1" json:"address_line1"`
	City            string `bson:"city" json:"city"`
	State           string `bson:"state" json:"state"`
	PostalCode      string `bson:"postal_code" json:"postal_code"`
	Country         string `bson:"country" json:"country"`
	OptionalRemarks string `bson:"optional_remarks" json:"optional_remarks"`
}

// Snapshot freezes the address fields an order needs.
func (a *Address) Snapshot() ShippingAddress {
	country := a.Country
	if country == "" {
		country = DefaultCountry
	}
	return ShippingAddress{
		AddressLine1:    a.AddressLine1,
		City:            a.City,
		State:           a.State,
		PostalCode:      a.PostalCode,
		Country:         country,
		OptionalRemarks: a.OptionalRemarks,
	}
}
