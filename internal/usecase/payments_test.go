package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/kiosk-api/internal/entity"
)

func TestCreateQRCode(t *testing.T) {
	orders := newMemOrders()
	products := newMemProducts(burger("p1", "15.99"))
	svc := NewPaymentService(orders, products, newFakeProvider())

	o, err := entity.NewOrder("ord-1", "", "", []entity.OrderItem{{ProductID: "p1", Quantity: 2}}, testNow)
	require.NoError(t, err)
	require.NoError(t, orders.Save(context.Background(), o))

	qr, err := svc.CreateQRCode(context.Background(), "ord-1", "http://localhost/webhooks/payment")
	require.NoError(t, err)
	assert.Equal(t, "pay-ord-1", qr.PaymentID)
	assert.Equal(t, "ord-1", qr.ExternalReference)
	assert.Equal(t, "http://localhost/webhooks/payment", qr.NotificationURL)
}

func TestCreateQRCodeErrors(t *testing.T) {
	orders := newMemOrders()
	svc := NewPaymentService(orders, newMemProducts(), newFakeProvider())

	_, err := svc.CreateQRCode(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	o, err := entity.NewOrder("ord-1", "", "", []entity.OrderItem{{ProductID: "missing", Quantity: 1}}, testNow)
	require.NoError(t, err)
	require.NoError(t, orders.Save(context.Background(), o))

	_, err = svc.CreateQRCode(context.Background(), "ord-1", "")
	var pErr *ProductNotFoundError
	require.True(t, errors.As(err, &pErr))
}
