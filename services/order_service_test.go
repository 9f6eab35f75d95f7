package services_test

import (
	"context"
	"testing"
	"time"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc         *services.OrderService
	orderRepo   *mockOrderRepo
	cartRepo    *mockCartRepo
	productRepo *mockProductRepo
	addressRepo *mockAddressRepo
	dispatcher  *mockDispatcher
	reconciler  *mockReconciler
}

func newOrderFixture(products []*models.Product, carts []*models.Cart, addresses []*models.Address) *orderFixture {
	f := &orderFixture{
		orderRepo:   &mockOrderRepo{},
		cartRepo:    newMockCartRepo(carts...),
		productRepo: newMockProductRepo(products...),
		addressRepo: &mockAddressRepo{addresses: addresses},
		dispatcher:  &mockDispatcher{},
		reconciler:  &mockReconciler{},
	}
	checkout := services.NewCheckoutService(f.cartRepo, f.productRepo, 0, 0)
	f.svc = services.NewOrderService(f.orderRepo, f.cartRepo, f.productRepo, f.addressRepo, checkout, f.dispatcher, f.reconciler)
	return f
}

func TestCreateDirectOrder_HappyPath(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Discount: 10, Stock: 5}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}}}
	address := &models.Address{ID: uuid.New(), UserID: userID, AddressLine1: "12 Thamel Marg", City: "Kathmandu", IsDefault: true}
	f := newOrderFixture([]*models.Product{product}, []*models.Cart{cart}, []*models.Address{address})

	user := &models.User{ID: userID, Name: "Asha", Email: "asha@example.com"}
	order, err := f.svc.CreateDirectOrder(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "12 Thamel Marg", order.ShippingAddress.AddressLine1)
	assert.Equal(t, 180.00, order.ItemsPrice)
	assert.Equal(t, 170.00, order.ShippingPrice)
	assert.Equal(t, 23.40, order.TaxPrice)
	assert.Equal(t, 373.40, order.TotalPrice)

	// Stock was reserved and the cart cleared.
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, 2, product.UnitsSold)
	assert.Equal(t, []uuid.UUID{userID}, f.cartRepo.cleared)
	assert.Equal(t, []string{"Order Created"}, f.dispatcher.sent)
	assert.Empty(t, f.reconciler.tasks)
	require.Len(t, f.orderRepo.orders, 1)
}

func TestCreateDirectOrder_MissingAddress(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Stock: 5}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}}}
	f := newOrderFixture([]*models.Product{product}, []*models.Cart{cart}, nil)

	_, err := f.svc.CreateDirectOrder(context.Background(), &models.User{ID: userID})

	assert.ErrorIs(t, err, apperrors.ErrMissingAddress)
	assert.Empty(t, f.orderRepo.orders)
	assert.Equal(t, 5, product.Stock)
	assert.Empty(t, f.cartRepo.cleared)
}

func TestCreateDirectOrder_DuplicatePending(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Stock: 5}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}}}
	address := &models.Address{ID: uuid.New(), UserID: userID, AddressLine1: "12 Thamel Marg", City: "Kathmandu", IsDefault: true}
	f := newOrderFixture([]*models.Product{product}, []*models.Cart{cart}, []*models.Address{address})

	user := &models.User{ID: userID, Name: "Asha"}
	_, err := f.svc.CreateDirectOrder(context.Background(), user)
	require.NoError(t, err)

	// Put the item back so only the pending-order check can reject.
	f.cartRepo.Save(context.Background(), &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}}})

	_, err = f.svc.CreateDirectOrder(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePendingOrder)
	assert.Len(t, f.orderRepo.orders, 1)
}

func paymentMetadataFixture(t *testing.T, userID, productID uuid.UUID) map[string]string {
	t.Helper()
	md, err := services.BuildIntentMetadata(
		models.UserInfo{UserID: userID, Name: "Asha", Email: "asha@example.com"},
		[]models.OrderItem{{ProductID: productID, Title: "Trail Runner", Price: 90, Quantity: 2}},
		models.ShippingAddress{AddressLine1: "12 Thamel Marg", City: "Kathmandu", Country: "Nepal"},
		services.Totals{ItemsPrice: 180, ShippingPrice: 170, TaxPrice: 23.40, TotalPrice: 373.40},
	)
	require.NoError(t, err)
	return md
}

func TestCreateOrderFromPayment_CreatesPaidOrder(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Discount: 10, Stock: 5}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}}}
	f := newOrderFixture([]*models.Product{product}, []*models.Cart{cart}, nil)

	md := paymentMetadataFixture(t, userID, product.ID)
	order, err := f.svc.CreateOrderFromPayment(context.Background(), "pi_123", md)

	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, models.PaymentMethodCard, order.PaymentMethod)
	require.NotNil(t, order.PaymentResult)
	assert.Equal(t, "pi_123", order.PaymentResult.ID)
	assert.Equal(t, "succeeded", order.PaymentResult.Status)
	assert.Equal(t, 180.00, order.ItemsPrice)
	assert.Equal(t, 23.40, order.TaxPrice)
	assert.Equal(t, 373.40, order.TotalPrice)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, []uuid.UUID{userID}, f.cartRepo.cleared)
}

func TestCreateOrderFromPayment_Idempotent(t *testing.T) {
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Discount: 10, Stock: 5}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}}}
	f := newOrderFixture([]*models.Product{product}, []*models.Cart{cart}, nil)

	md := paymentMetadataFixture(t, userID, product.ID)
	first, err := f.svc.CreateOrderFromPayment(context.Background(), "pi_123", md)
	require.NoError(t, err)

	// Redelivery of the same event must not create a second order or
	// touch stock again.
	second, err := f.svc.CreateOrderFromPayment(context.Background(), "pi_123", md)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Len(t, f.productRepo.reserves, 1)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, []string{"Order Created"}, f.dispatcher.sent)
}

func TestCreateOrderFromPayment_MalformedMetadata(t *testing.T) {
	f := newOrderFixture(nil, nil, nil)

	cases := map[string]map[string]string{
		"nil":            nil,
		"empty":          {},
		"missing items":  {"userInfo": `{"userId":"` + uuid.NewString() + `","name":"Asha"}`, "totalPrice": "373.40"},
		"bad version":    {"schemaVersion": "2"},
		"zero total":     {"totalPrice": "0"},
		"items not json": {"orderItems": "not-json"},
	}

	for name, md := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateOrderFromPayment(context.Background(), "pi_bad", md)
			assert.ErrorIs(t, err, apperrors.ErrMalformedPaymentMetadata)
		})
	}
	assert.Empty(t, f.orderRepo.orders)
}

func TestCreateOrderFromPayment_StockShortfallEnqueuesReconcile(t *testing.T) {
	// Payment already succeeded, so the order must stand even when the
	// stock decrement cannot be applied.
	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Title: "Trail Runner", Price: 100, Discount: 10, Stock: 1}
	f := newOrderFixture([]*models.Product{product}, nil, nil)

	md := paymentMetadataFixture(t, userID, product.ID)
	order, err := f.svc.CreateOrderFromPayment(context.Background(), "pi_123", md)

	require.NoError(t, err)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Equal(t, 1, product.Stock)

	require.Len(t, f.reconciler.tasks, 1)
	task := f.reconciler.tasks[0]
	assert.Equal(t, services.ReasonStockNotReserved, task.Reason)
	assert.Equal(t, order.ID, task.OrderID)
	assert.Equal(t, product.ID, task.ProductID)
	assert.Equal(t, 2, task.Quantity)
}

func TestTransitionStatus_InvalidStatus(t *testing.T) {
	f := newOrderFixture(nil, nil, nil)
	_, err := f.svc.TransitionStatus(context.Background(), uuid.New(), "returned")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestTransitionStatus_NotFound(t *testing.T) {
	f := newOrderFixture(nil, nil, nil)
	_, err := f.svc.TransitionStatus(context.Background(), uuid.New(), models.StatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestTransitionStatus_TimestampsSetOnce(t *testing.T) {
	f := newOrderFixture(nil, nil, nil)
	order := &models.Order{UserInfo: models.UserInfo{UserID: uuid.New()}, Status: models.StatusConfirmed}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))

	shipped, err := f.svc.TransitionStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	require.NotNil(t, shipped.ShippedAt)
	firstShipped := *shipped.ShippedAt

	time.Sleep(5 * time.Millisecond)

	delivered, err := f.svc.TransitionStatus(context.Background(), order.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, firstShipped, *delivered.ShippedAt)
	firstDelivered := *delivered.DeliveredAt

	time.Sleep(5 * time.Millisecond)

	again, err := f.svc.TransitionStatus(context.Background(), order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, firstDelivered, *again.DeliveredAt)
	assert.Equal(t, models.StatusDelivered, again.Status)
}
