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
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// StripeGateway is the slice of the payment adapter the controllers use.
// Declared here so webhook handling can be tested against a stub.
type StripeGateway interface {
	FindOrCreateCustomer(user *models.User) (customerID string, created bool, err error)
	CreateIntent(customerID string, metadata map[string]string, total float64) (*services.IntentResult, error)
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

// PaymentController handles intent creation and webhook processing.
type PaymentController struct {
	Stripe      StripeGateway
	UserRepo    repository.UserRepository
	AddressRepo repository.AddressRepository
	Checkout    *services.CheckoutService
	Orders      *services.OrderService
	Cache       *CacheManager
}

// CreatePaymentIntent validates the cart, prices it and creates a Stripe
// payment intent carrying the full order snapshot as metadata. Nothing is
// persisted here beyond the user's Stripe customer id; the order is created
// later by the webhook.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := pc.UserRepo.FindByID(c, userID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	address, err := pc.AddressRepo.FindDefault(c, userID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, apperrors.ErrMissingAddress)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := pc.Checkout.BuildSnapshot(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	totals, err := pc.Checkout.ComputeTotals(items)
	if err != nil {
		respondError(c, err)
		return
	}

	customerID, created, err := pc.Stripe.FindOrCreateCustomer(user)
	if err != nil {
		logger.Error(c, "Stripe customer lookup failed", err, zap.String("user_id", userID.String()))
		respondError(c, apperrors.Wrap(apperrors.ErrPaymentProvider, err))
		return
	}
	if created {
		if err := pc.UserRepo.SetStripeCustomerID(c, userID, customerID); err != nil {
			logger.Warn(c, "Failed to persist stripe customer id", zap.Error(err))
		}
	}

	userInfo := models.UserInfo{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
	}
	metadata, err := services.BuildIntentMetadata(userInfo, items, address.Snapshot(), totals)
	if err != nil {
		logger.Error(c, "Failed to build intent metadata", err)
		respondError(c, err)
		return
	}

	result, err := pc.Stripe.CreateIntent(customerID, metadata, totals.TotalPrice)
	if err != nil {
		logger.Error(c, "Stripe PaymentIntent creation failed", err, zap.String("user_id", userID.String()))
		respondError(c, apperrors.Wrap(apperrors.ErrPaymentProvider, err))
		return
	}

	c.JSON(http.StatusOK, result)
}
