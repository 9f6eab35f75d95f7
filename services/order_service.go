package services

import (
	"context"
	"errors"
	"time"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/common/logger"
	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService owns order creation, status transitions and idempotent
// creation from payment webhooks.
//
// The workflow has no transaction boundary: order creation, per-line stock
// decrement and cart clear are separate writes. The order record is created
// first; failures in later steps never roll it back, they enqueue
// reconciliation tasks instead.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	checkout    *CheckoutService
	dispatcher  Dispatcher
	reconciler  Reconciler
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	checkout *CheckoutService,
	dispatcher Dispatcher,
	reconciler Reconciler,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		checkout:    checkout,
		dispatcher:  dispatcher,
		reconciler:  reconciler,
	}
}

// CreateDirectOrder places a pay-on-delivery order from the user's cart.
func (s *OrderService) CreateDirectOrder(ctx context.Context, user *models.User) (*models.Order, error) {
	address, err := s.addressRepo.FindDefault(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrMissingAddress
	}
	if err != nil {
		return nil, err
	}

	items, err := s.checkout.BuildSnapshot(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.orderRepo.FindPendingUnpaid(ctx, user.ID); err == nil {
		return nil, apperrors.ErrDuplicatePendingOrder
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	totals, err := s.checkout.ComputeTotals(items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserInfo: models.UserInfo{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Phone:  user.Phone,
		},
		OrderItems:      items,
		ShippingAddress: address.Snapshot(),
		PaymentMethod:   models.PaymentMethodCOD,
		IsPaid:          false,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
		Status:          models.StatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.finishOrder(ctx, order)
	return order, nil
}

// CreateOrderFromPayment creates an order from a succeeded payment intent.
// The intent id is the idempotency key: under at-least-once webhook delivery
// a duplicate event returns the already-created order unchanged, before any
// side-effecting write.
func (s *OrderService) CreateOrderFromPayment(ctx context.Context, intentID string, metadata map[string]string) (*models.Order, error) {
	existing, err := s.orderRepo.FindByPaymentIntentID(ctx, intentID)
	if err == nil {
		logger.Info(ctx, "Order already exists for payment intent", zap.String("payment_intent_id", intentID))
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	parsed, err := ParsePaymentMetadata(metadata)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	for _, item := range parsed.OrderItems {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	now := time.Now().UTC()
	order := &models.Order{
		UserInfo:        parsed.UserInfo,
		OrderItems:      parsed.OrderItems,
		ShippingAddress: parsed.ShippingAddress,
		PaymentMethod:   models.PaymentMethodCard,
		IsPaid:          true,
		PaidAt:          &now,
		PaymentResult: &models.PaymentResult{
			ID:     intentID,
			Status: "succeeded",
		},
		ItemsPrice:    subtotal,
		ShippingPrice: s.checkout.shippingFee,
		TaxPrice:      round2(subtotal * s.checkout.taxRate),
		TotalPrice:    parsed.TotalPrice,
		Status:        models.StatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.finishOrder(ctx, order)
	return order, nil
}

// finishOrder runs the post-creation steps: stock reservation, cart clear
// and notification. Each step is best-effort relative to the already durable
// order; failures are recorded as reconciliation tasks.
func (s *OrderService) finishOrder(ctx context.Context, order *models.Order) {
	for _, item := range order.OrderItems {
		if err := s.productRepo.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.reconciler.Enqueue(ctx, ReconcileTask{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Reason:    ReasonStockNotReserved,
			})
		}
	}

	if err := s.cartRepo.Clear(ctx, order.UserInfo.UserID); err != nil {
		s.reconciler.Enqueue(ctx, ReconcileTask{
			OrderID: order.ID,
			UserID:  order.UserInfo.UserID,
			Reason:  ReasonCartNotCleared,
		})
	}

	s.dispatcher.Send(ctx, order.UserInfo.UserID, "Order Created", "Your order has been placed successfully.", "order")
}

// TransitionStatus moves an order to a new status. shippedAt and deliveredAt
// are set only the first time the order enters that status; re-applying the
// same status leaves the timestamp untouched. No ordering between states is
// enforced at this layer.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*models.Order, error) {
	if !models.ValidStatus(newStatus) {
		return nil, apperrors.ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if newStatus == models.StatusShipped && order.ShippedAt == nil {
		order.ShippedAt = &now
	}
	if newStatus == models.StatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}
	order.Status = newStatus

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetUserOrders lists the user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

// GetOrderByID returns the user's own order.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByPaymentIntent lets a client poll for the order its payment
// produced; the webhook may land after the client's redirect.
func (s *OrderService) GetOrderByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	order, err := s.orderRepo.FindByPaymentIntentID(ctx, intentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
