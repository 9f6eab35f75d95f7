package controllers

import (
	"encoding/json"
	"net/http"

	"storefront-backend/common/logger"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// StripeWebhook receives Stripe webhook events. Signature verification
// failures are rejected with 400. Once the event is verified every outcome
// is acknowledged with 200: failing here would only trigger provider
// retries for conditions a retry cannot fix, so internal failures are
// logged for out-of-band reconciliation instead.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	event, err := pc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		logger.Warn(c, "Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	logger.Info(c, "Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	// Delivery is at-least-once and only payment_intent.succeeded creates
	// orders; everything else is acknowledged and ignored.
	if string(event.Type) == services.PaymentIntentEventType {
		pc.handlePaymentSucceeded(c, event)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (pc *PaymentController) handlePaymentSucceeded(c *gin.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		logger.Error(c, "Failed to unmarshal payment intent", err, zap.String("event_id", event.ID))
		return
	}

	order, err := pc.Orders.CreateOrderFromPayment(c, pi.ID, pi.Metadata)
	if err != nil {
		logger.Error(c, "Failed to create order from webhook", err,
			zap.String("payment_intent_id", pi.ID),
		)
		return
	}

	ids := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		ids = append(ids, item.ProductID.String())
	}
	pc.Cache.Invalidate(c, ids)

	logger.Info(c, "Order created from payment",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", pi.ID),
	)
}
