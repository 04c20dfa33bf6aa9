package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrQueueNotFound    = errors.New("queue entry not found")

	// ErrConflict signals a lost concurrent-write race. Retryable,
	// unlike an illegal transition which will never succeed.
	ErrConflict = errors.New("concurrent update conflict")

	ErrPaymentNotApproved = errors.New("payment must be approved before preparation starts")
	ErrAmbiguousCustomer  = errors.New("provide either a customer id or a cpf, not both")

	ErrInvalidSignature            = errors.New("invalid webhook signature")
	ErrMalformedWebhook            = errors.New("malformed webhook payload")
	ErrMissingExternalReference    = errors.New("payment has no external reference")
	ErrUnsupportedNotificationType = errors.New("unsupported webhook notification type")

	ErrInvalidCPF     = errors.New("invalid cpf")
	ErrDuplicateCPF   = errors.New("cpf already registered")
	ErrDuplicateEmail = errors.New("email already registered")

	ErrDuplicateCheckout = errors.New("duplicate checkout request")

	// ErrProviderUnavailable wraps payment provider transport and API
	// failures so the HTTP layer can answer 502 instead of 500.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

// ProductNotFoundError identifies which product id failed to resolve.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}
