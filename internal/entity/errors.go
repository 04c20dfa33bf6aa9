package entity

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOrderID  = errors.New("order id is required")
	ErrEmptyOrder      = errors.New("order must have at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
)

// StatusTransitionError reports an order status change absent from
// the legality table.
type StatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// PaymentTransitionError reports a payment status change absent from
// the legality table.
type PaymentTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *PaymentTransitionError) Error() string {
	return fmt.Sprintf("invalid payment status transition: %s -> %s", e.From, e.To)
}
