package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidQuantity rejects order lines with quantity < 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPrice rejects non-positive amounts.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrOrderNotFound — no order matches the requested id or operation id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound — single-product lookup miss.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidWebhook covers every webhook verification failure: bad
	// signature, wrong algorithm, unparseable payload. Deliberately one
	// generic error so the endpoint leaks nothing to probes.
	ErrInvalidWebhook = errors.New("invalid webhook token")
	// ErrEmptyOrder rejects order requests with no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
)

// DuplicatePositionsError reports a product id that appears more than once
// across the requested order lines.
type DuplicatePositionsError struct {
	ProductID string
}

func (e *DuplicatePositionsError) Error() string {
	return fmt.Sprintf("duplicate order position: product %s", e.ProductID)
}

// ProductsNotFoundError carries the complete set of missing ids so the
// caller can fix its request in one round trip.
type ProductsNotFoundError struct {
	MissingIDs []string
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.MissingIDs, ", "))
}

// PaymentGatewayError wraps any non-success outcome of a call to the
// acquiring service. Fatal to order creation; never retried here.
type PaymentGatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *PaymentGatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %v", e.Err)
	}
	return fmt.Sprintf("payment gateway: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// UnexpectedWebhookTypeError reports a verified webhook whose type is not
// the payment-completed variant this service handles.
type UnexpectedWebhookTypeError struct {
	WebhookType string
}

func (e *UnexpectedWebhookTypeError) Error() string {
	return fmt.Sprintf("unexpected webhook type: %s", e.WebhookType)
}
