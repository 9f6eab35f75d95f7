package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/models"

	"github.com/google/uuid"
)

// Payment-intent metadata keys. The provider is the only durable store
// between intent creation and webhook delivery, so the whole order snapshot
// rides on the intent as JSON-encoded strings and must round-trip exactly.
const (
	metaKeyVersion         = "schemaVersion"
	metaKeyUserInfo        = "userInfo"
	metaKeyOrderItems      = "orderItems"
	metaKeyShippingAddress = "shippingAddress"
	metaKeyTotalPrice      = "totalPrice"

	metadataVersion = "1"
)

// PaymentMetadata is the snapshot reconstructed from a payment intent.
type PaymentMetadata struct {
	UserInfo        models.UserInfo
	OrderItems      []models.OrderItem
	ShippingAddress models.ShippingAddress
	TotalPrice      float64
}

// BuildIntentMetadata serializes the snapshot for storage on the intent.
func BuildIntentMetadata(userInfo models.UserInfo, items []models.OrderItem, address models.ShippingAddress, totals Totals) (map[string]string, error) {
	userJSON, err := json.Marshal(userInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal user info: %w", err)
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	addressJSON, err := json.Marshal(address)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping address: %w", err)
	}

	return map[string]string{
		metaKeyVersion:         metadataVersion,
		metaKeyUserInfo:        string(userJSON),
		metaKeyOrderItems:      string(itemsJSON),
		metaKeyShippingAddress: string(addressJSON),
		metaKeyTotalPrice:      strconv.FormatFloat(totals.TotalPrice, 'f', 2, 64),
	}, nil
}

// ParsePaymentMetadata validates and deserializes intent metadata, failing
// closed: any missing or malformed required field rejects the whole payload
// rather than silently defaulting.
func ParsePaymentMetadata(md map[string]string) (*PaymentMetadata, error) {
	if md == nil {
		return nil, apperrors.ErrMalformedPaymentMetadata
	}
	if v, ok := md[metaKeyVersion]; ok && v != metadataVersion {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("unsupported metadata version %q", v))
	}

	var parsed PaymentMetadata

	if err := json.Unmarshal([]byte(md[metaKeyUserInfo]), &parsed.UserInfo); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("userInfo: %w", err))
	}
	if parsed.UserInfo.UserID == uuid.Nil || parsed.UserInfo.Name == "" {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("userInfo missing required fields"))
	}

	if err := json.Unmarshal([]byte(md[metaKeyOrderItems]), &parsed.OrderItems); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("orderItems: %w", err))
	}
	if len(parsed.OrderItems) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("orderItems is empty"))
	}
	for _, item := range parsed.OrderItems {
		if item.ProductID == uuid.Nil || item.Quantity < 1 || item.Price < 0 {
			return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("invalid order item"))
		}
	}

	if err := json.Unmarshal([]byte(md[metaKeyShippingAddress]), &parsed.ShippingAddress); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("shippingAddress: %w", err))
	}
	if parsed.ShippingAddress.AddressLine1 == "" || parsed.ShippingAddress.City == "" {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("shippingAddress missing required fields"))
	}

	total, err := strconv.ParseFloat(md[metaKeyTotalPrice], 64)
	if err != nil || total <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrMalformedPaymentMetadata, fmt.Errorf("invalid totalPrice %q", md[metaKeyTotalPrice]))
	}
	parsed.TotalPrice = total

	return &parsed, nil
}
