package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/kiosk-api/internal/entity"
)

type orderFixture struct {
	svc      *OrderService
	orders   *memOrders
	queue    *memQueue
	notifier *recNotifier
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:   newMemOrders(),
		queue:    newMemQueue(),
		notifier: &recNotifier{},
	}
	f.svc = NewOrderService(f.orders, f.queue, RequireApprovedPayment{}, nil, f.notifier).
		WithClock(func() time.Time { return testNow })
	return f
}

func (f *orderFixture) seed(t *testing.T, id string, status entity.OrderStatus, pay entity.PaymentStatus) {
	t.Helper()
	o, err := entity.RestoreOrder(id, "cust-1", "", []entity.OrderItem{{ProductID: "p1", Quantity: 1}},
		status, pay, testNow.Add(-time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(context.Background(), o))
	require.NoError(t, f.queue.CreateIfAbsent(context.Background(), &entity.QueueEntry{
		ID: "q-" + id, OrderID: id, Status: status,
		CreatedAt: o.CreatedAt(), UpdatedAt: o.UpdatedAt(),
	}))
}

func TestUpdateStatusRequiresApprovedPayment(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusPending)

	_, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusInPreparation)
	assert.ErrorIs(t, err, ErrPaymentNotApproved)

	got, _ := f.orders.FindByID(context.Background(), "ord-1")
	assert.Equal(t, entity.OrderStatusReceived, got.Status(), "rejected transition must not persist")
}

func TestUpdateStatusHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)

	order, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusInPreparation)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInPreparation, order.Status())

	persisted, _ := f.orders.FindByID(context.Background(), "ord-1")
	assert.Equal(t, entity.OrderStatusInPreparation, persisted.Status())

	entry, err := f.queue.FindByOrderID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInPreparation, entry.Status, "queue entry mirrors the order")

	require.Len(t, f.notifier.changed, 1)
	assert.Equal(t, string(entity.OrderStatusReceived), f.notifier.changed[0].OldStatus)
	assert.Equal(t, string(entity.OrderStatusInPreparation), f.notifier.changed[0].NewStatus)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)

	_, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusFinished)
	var tErr *entity.StatusTransitionError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, entity.OrderStatusReceived, tErr.From)
	assert.Equal(t, entity.OrderStatusFinished, tErr.To)
}

func TestUpdateStatusCancelNeedsNoPayment(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusPending)

	order, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, order.Status())
}

func TestUpdateStatusLostRace(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)
	f.orders.forceCASMiss = true

	_, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusInPreparation)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.UpdateStatus(context.Background(), "ghost", entity.OrderStatusInPreparation)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusSurvivesQueueMirrorFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)
	f.queue.updateErr = errors.New("queue store down")

	order, err := f.svc.UpdateStatus(context.Background(), "ord-1", entity.OrderStatusInPreparation)
	require.NoError(t, err, "queue mirror is best-effort")
	assert.Equal(t, entity.OrderStatusInPreparation, order.Status())
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusPending)

	order, err := f.svc.UpdatePaymentStatus(context.Background(), "ord-1", entity.PaymentStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusApproved, order.PaymentStatus())

	persisted, _ := f.orders.FindByID(context.Background(), "ord-1")
	assert.Equal(t, entity.PaymentStatusApproved, persisted.PaymentStatus())
}

func TestUpdatePaymentStatusReplayIsNoOp(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)

	before, _ := f.orders.FindByID(context.Background(), "ord-1")
	order, err := f.svc.UpdatePaymentStatus(context.Background(), "ord-1", entity.PaymentStatusApproved)
	require.NoError(t, err, "asserting the current status must succeed")
	assert.Equal(t, entity.PaymentStatusApproved, order.PaymentStatus())

	after, _ := f.orders.FindByID(context.Background(), "ord-1")
	assert.Equal(t, before.UpdatedAt(), after.UpdatedAt(), "no write on replay")
}

func TestUpdatePaymentStatusIllegalTransition(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusCancelled)

	_, err := f.svc.UpdatePaymentStatus(context.Background(), "ord-1", entity.PaymentStatusApproved)
	var tErr *entity.PaymentTransitionError
	require.True(t, errors.As(err, &tErr))
}

func TestGetPaymentStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ord-1", entity.OrderStatusReceived, entity.PaymentStatusApproved)

	res, err := f.svc.GetPaymentStatus(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, entity.PaymentStatusApproved, res.PaymentStatus)
	assert.True(t, res.IsApproved)

	_, err = f.svc.GetPaymentStatus(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
