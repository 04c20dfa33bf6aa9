package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

// writeError maps domain and usecase errors to HTTP status codes.
// Conflicts are distinguished from illegal transitions so clients
// know what is retryable.
func writeError(c *gin.Context, err error) {
	var (
		statusErr  *entity.StatusTransitionError
		paymentErr *entity.PaymentTransitionError
		productErr *usecase.ProductNotFoundError
	)

	switch {
	case errors.Is(err, entity.ErrEmptyOrder),
		errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrAmbiguousCustomer),
		errors.Is(err, usecase.ErrInvalidCPF),
		errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrMalformedWebhook),
		errors.Is(err, usecase.ErrUnsupportedNotificationType),
		errors.Is(err, usecase.ErrMissingExternalReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrCustomerNotFound),
		errors.Is(err, usecase.ErrQueueNotFound),
		errors.As(err, &productErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrDuplicateCheckout),
		errors.Is(err, usecase.ErrDuplicateCPF),
		errors.Is(err, usecase.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrPaymentNotApproved),
		errors.As(err, &statusErr),
		errors.As(err, &paymentErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
