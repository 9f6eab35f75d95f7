package services

import (
	"context"
	"errors"
	"math"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
)

// Pricing defaults. Shipping is a flat fee; tax is applied to the item
// subtotal only.
const (
	DefaultShippingFee = 170.0
	DefaultTaxRate     = 0.13
)

// Totals is the price breakdown computed from a snapshot. Each component is
// non-negative and TotalPrice = ItemsPrice + ShippingPrice + TaxPrice.
type Totals struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// CheckoutService builds immutable line-item snapshots from a user's cart
// and prices them. The snapshot is the single source of truth handed to both
// the direct-order path and the payment-intent metadata, so the price the
// user saw is the price that gets charged.
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	shippingFee float64
	taxRate     float64
}

func NewCheckoutService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, shippingFee, taxRate float64) *CheckoutService {
	if shippingFee <= 0 {
		shippingFee = DefaultShippingFee
	}
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		shippingFee: shippingFee,
		taxRate:     taxRate,
	}
}

// BuildSnapshot loads the user's cart, resolves each line against the live
// product and freezes discounted unit prices. It fails when the cart is
// empty or any line exceeds current stock; it never mutates anything.
func (s *CheckoutService) BuildSnapshot(ctx context.Context, userID uuid.UUID) ([]models.OrderItem, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}

		if product.Stock < line.Quantity {
			return nil, apperrors.InsufficientStockFor(product.Title)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.DiscountedPrice(),
			Quantity:  line.Quantity,
			Image:     product.FirstImage(),
		})
	}
	return items, nil
}

// ComputeTotals prices a snapshot. Pure and deterministic: the same snapshot
// always yields the same breakdown, which matters because totals are
// recomputed independently at intent-creation time and must match what is
// eventually charged.
func (s *CheckoutService) ComputeTotals(items []models.OrderItem) (Totals, error) {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * s.taxRate)
	total := round2(subtotal + s.shippingFee + tax)

	if total <= 0 {
		return Totals{}, apperrors.ErrInvalidTotal
	}

	return Totals{
		ItemsPrice:    subtotal,
		ShippingPrice: s.shippingFee,
		TaxPrice:      tax,
		TotalPrice:    total,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
