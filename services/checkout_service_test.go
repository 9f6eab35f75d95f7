package services_test

import (
	"context"
	"testing"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newCheckout(cartRepo *mockCartRepo, productRepo *mockProductRepo) *services.CheckoutService {
	return services.NewCheckoutService(cartRepo, productRepo, services.DefaultShippingFee, services.DefaultTaxRate)
}

func TestBuildSnapshot_FreezesDiscountedPrices(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{
		ID:       uuid.New(),
		Title:    "Trail Backpack",
		Price:    100,
		Discount: 10,
		Stock:    5,
		Images:   []string{"backpack.jpg"},
	}
	cart := &models.Cart{
		UserID: userID,
		Items:  []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}
	svc := newCheckout(newMockCartRepo(cart), newMockProductRepo(product))

	items, err := svc.BuildSnapshot(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, "Trail Backpack", items[0].Title)
	assert.Equal(t, 90.00, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "backpack.jpg", items[0].Image)
}

func TestBuildSnapshot_EmptyCart(t *testing.T) {
	userID := uuid.New()

	// no cart document at all
	svc := newCheckout(newMockCartRepo(), newMockProductRepo())
	_, err := svc.BuildSnapshot(context.Background(), userID)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)

	// cart exists but has no items
	svc = newCheckout(newMockCartRepo(&models.Cart{UserID: userID}), newMockProductRepo())
	_, err = svc.BuildSnapshot(context.Background(), userID)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
}

func TestBuildSnapshot_InsufficientStockNamesProduct(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Limited Sneaker", Price: 50, Stock: 1}
	cart := &models.Cart{
		UserID: userID,
		Items:  []models.CartItem{{ProductID: product.ID, Quantity: 3}},
	}
	svc := newCheckout(newMockCartRepo(cart), newMockProductRepo(product))

	_, err := svc.BuildSnapshot(context.Background(), userID)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Limited Sneaker")
}

func TestComputeTotals_Breakdown(t *testing.T) {
	svc := newCheckout(newMockCartRepo(), newMockProductRepo())
	items := []models.OrderItem{
		{ProductID: uuid.New(), Title: "Trail Backpack", Price: 90.00, Quantity: 2},
	}

	totals, err := svc.ComputeTotals(items)

	assert.NoError(t, err)
	assert.Equal(t, 180.00, totals.ItemsPrice)
	assert.Equal(t, 170.00, totals.ShippingPrice)
	assert.Equal(t, 23.40, totals.TaxPrice)
	assert.Equal(t, 373.40, totals.TotalPrice)
}

func TestComputeTotals_Deterministic(t *testing.T) {
	svc := newCheckout(newMockCartRepo(), newMockProductRepo())
	items := []models.OrderItem{
		{ProductID: uuid.New(), Price: 33.33, Quantity: 3},
		{ProductID: uuid.New(), Price: 12.49, Quantity: 1},
	}

	first, err := svc.ComputeTotals(items)
	assert.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := svc.ComputeTotals(items)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeTotals_SubtotalRoundedAfterSummation(t *testing.T) {
	svc := newCheckout(newMockCartRepo(), newMockProductRepo())
	items := []models.OrderItem{
		{ProductID: uuid.New(), Price: 0.1, Quantity: 3},
	}

	totals, err := svc.ComputeTotals(items)

	assert.NoError(t, err)
	assert.Equal(t, 0.30, totals.ItemsPrice)
	assert.Equal(t, 0.04, totals.TaxPrice)
	assert.Equal(t, 170.34, totals.TotalPrice)
}
