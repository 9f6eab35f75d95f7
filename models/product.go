package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Product is the catalog document. Stock and UnitsSold are mutated only
// through the conditional reserve update in the repository.
type Product struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64   `bson:"price" json:"price"`
	Discount    float64   `bson:"discount" json:"discount"`
	Stock       int       `bson:"stock" json:"stock"`
	UnitsSold   int       `bson:"units_sold" json:"units_sold"`
	Images      []string  `bson:"images" json:"images"`
	Rating      float64   `bson:"rating" json:"rating"`
	RatingCount int       `bson:"rating_count" json:"rating_count"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// DiscountedPrice applies the discount percent and rounds to 2 decimals.
func (p *Product) DiscountedPrice() float64 {
	return math.Round((p.Price-(p.Price*p.Discount)/100)*100) / 100
}

// FirstImage returns the representative image for order line items.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
