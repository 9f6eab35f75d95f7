package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error represents an application error with an HTTP status attached.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a copy of the given error, keeping the
// predeclared instances immutable.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Generic error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInvalidInput   = New(http.StatusBadRequest, "Invalid input", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Checkout and order error types
var (
	ErrEmptyCart             = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrInsufficientStock     = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrInvalidTotal          = New(http.StatusBadRequest, "Invalid order total", nil)
	ErrMissingAddress        = New(http.StatusBadRequest, "Shipping address is required", nil)
	ErrDuplicatePendingOrder = New(http.StatusConflict, "You already have a pending order", nil)
	ErrOrderNotFound         = New(http.StatusNotFound, "Order not found", nil)
	ErrInvalidStatus         = New(http.StatusBadRequest, "Invalid status value", nil)
	ErrProductNotFound       = New(http.StatusNotFound, "Product not found", nil)
	ErrCartItemNotFound      = New(http.StatusNotFound, "Item not in cart", nil)
)

// Payment error types
var (
	ErrMalformedPaymentMetadata = New(http.StatusBadRequest, "Invalid payment metadata", nil)
	ErrInvalidSignature         = New(http.StatusBadRequest, "Webhook signature verification failed", nil)
	ErrPaymentProvider          = New(http.StatusBadGateway, "Payment provider unavailable", nil)
)

// Address error types
var (
	ErrAddressNotFound = New(http.StatusNotFound, "Address not found", nil)
	ErrAddressLimit    = New(http.StatusBadRequest, "Address limit reached", nil)
)

// InsufficientStockFor names the offending product in the error message.
func InsufficientStockFor(title string) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", title), ErrInsufficientStock)
}

// Is lets errors.Is match predeclared instances and their wrapped copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}
