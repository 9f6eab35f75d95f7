package controllers

import (
	"errors"
	"net/http"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/common/logger"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderController exposes the order lifecycle over HTTP.
type OrderController struct {
	Service  *services.OrderService
	UserRepo repository.UserRepository
	Cache    *CacheManager
}

func NewOrderController(service *services.OrderService, userRepo repository.UserRepository, cache *CacheManager) *OrderController {
	return &OrderController{Service: service, UserRepo: userRepo, Cache: cache}
}

// CreateOrder places a pay-on-delivery order from the user's cart.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := oc.UserRepo.FindByID(c, userID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	if err != nil {
		logger.Error(c, "Failed to load user", err)
		respondError(c, err)
		return
	}

	order, err := oc.Service.CreateDirectOrder(c, user)
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			logger.Error(c, "Failed to create order", err, zap.String("user_id", userID.String()))
		}
		respondError(c, err)
		return
	}

	oc.invalidateProductCache(c, order)
	logger.Info(c, "Order placed", zap.String("order_id", order.ID.String()), zap.String("user_id", userID.String()))
	c.JSON(http.StatusCreated, order)
}

// GetMyOrders lists the authenticated user's orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orders, err := oc.Service.GetUserOrders(c, userID)
	if err != nil {
		logger.Error(c, "Failed to fetch orders", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID returns one of the user's orders.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	order, err := oc.Service.GetOrderByID(c, orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderByPaymentIntent lets the client poll for the order created by a
// webhook after it completes a card payment.
func (oc *OrderController) GetOrderByPaymentIntent(c *gin.Context) {
	intentID := c.Param("paymentIntentId")
	if intentID == "" {
		respondError(c, apperrors.ErrBadRequest)
		return
	}

	order, err := oc.Service.GetOrderByPaymentIntent(c, intentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus transitions an order's status (admin only, enforced by
// routing middleware).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	order, err := oc.Service.TransitionStatus(c, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info(c, "Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status),
	)
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) invalidateProductCache(c *gin.Context, order *models.Order) {
	ids := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		ids = append(ids, item.ProductID.String())
	}
	oc.Cache.Invalidate(c, ids)
}
