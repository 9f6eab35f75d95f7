package services

import (
	"bytes"
	"io"
	"math"
	"net/http"

	"storefront-backend/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/customer"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentIntentEventType is the only event type that triggers order creation;
// every other type is acknowledged and ignored.
const PaymentIntentEventType = "payment_intent.succeeded"

// IntentResult is what the client needs to complete a card payment.
type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// StripeService wraps the Stripe API surface this backend uses: customers,
// payment intents and webhook verification.
type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

// FindOrCreateCustomer resolves the user's Stripe customer, creating one on
// first checkout. It reports created=true so the caller can persist the id.
func (s *StripeService) FindOrCreateCustomer(user *models.User) (customerID string, created bool, err error) {
	if user.StripeCustomerID != "" {
		cust, err := customer.Get(user.StripeCustomerID, nil)
		if err != nil {
			return "", false, err
		}
		return cust.ID, false, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	}
	params.AddMetadata("userId", user.ID.String())

	cust, err := customer.New(params)
	if err != nil {
		return "", false, err
	}
	return cust.ID, true, nil
}

// CreateIntent creates a payment intent for the total in minor units, with
// the full order snapshot embedded as metadata.
func (s *StripeService) CreateIntent(customerID string, metadata map[string]string, total float64) (*IntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(total * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &IntentResult{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header against the shared
// webhook secret and returns the typed event. Verification failure must
// reject: this boundary is what prevents forged payment confirmations.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
