package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/logging"
)

// OrderService owns status and payment mutations plus the read paths.
// Every mutation is a guarded read-modify-write: the aggregate checks
// legality in memory, the repo applies it with a compare-and-swap, and
// a losing writer gets ErrConflict instead of a silent overwrite.
type OrderService struct {
	orders   OrderRepo
	queue    QueueRepo
	policy   TransitionPolicy
	cache    StatusCache
	notifier Notifier
	log      *slog.Logger
	clock    func() time.Time
}

func NewOrderService(orders OrderRepo, queue QueueRepo, policy TransitionPolicy, cache StatusCache, notifier Notifier) *OrderService {
	return &OrderService{
		orders:   orders,
		queue:    queue,
		policy:   policy,
		cache:    cache,
		notifier: notifier,
		log:      logging.New("orders"),
		clock:    time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (s *OrderService) WithClock(clock func() time.Time) *OrderService {
	s.clock = clock
	return s
}

func (s *OrderService) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) FindAll(ctx context.Context) ([]*entity.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return s.orders.FindByStatus(ctx, status)
}

func (s *OrderService) FindByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error) {
	return s.orders.FindByCustomer(ctx, customerID)
}

type PaymentStatusResult struct {
	OrderID       string               `json:"orderId"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	IsApproved    bool                 `json:"isApproved"`
}

func (s *OrderService) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentStatusResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PaymentStatusResult{
		OrderID:       order.ID(),
		PaymentStatus: order.PaymentStatus(),
		IsApproved:    order.IsPaymentApproved(),
	}, nil
}

// UpdateStatus applies a workflow transition: policy first, then the
// aggregate's legality table, then a CAS write mirrored into the
// queue entry.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, target entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Allow(order, target); err != nil {
		return nil, err
	}

	from := order.Status()
	now := s.clock()
	if err := order.TransitionStatus(target, now); err != nil {
		return nil, err
	}

	ok, err := s.orders.UpdateStatusIf(ctx, orderID, from, target, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	// The queue entry is a derived index; failing to mirror it must
	// not roll back the order, only get logged for reconciliation.
	if err := s.queue.UpdateStatus(ctx, orderID, target, now); err != nil {
		s.log.Warn("queue mirror failed", "order_id", orderID, "status", target, "err", err)
	}
	if s.cache != nil {
		_ = s.cache.SetStatus(ctx, orderID, string(target))
	}
	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, OrderStatusChangedMsg{
			OrderID:   orderID,
			OldStatus: string(from),
			NewStatus: string(target),
			ChangedAt: now,
		}); err != nil {
			s.log.Warn("status notification failed", "order_id", orderID, "err", err)
		}
	}

	statusTransitionsTotal.WithLabelValues(string(from), string(target)).Inc()
	return order, nil
}

// UpdatePaymentStatus is idempotent on replay: asserting the current
// payment status is a no-op success, never an illegal transition.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID string, target entity.PaymentStatus) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.PaymentStatus()
	if from == target {
		return order, nil
	}

	now := s.clock()
	if err := order.TransitionPayment(target, now); err != nil {
		return nil, err
	}

	ok, err := s.orders.UpdatePaymentStatusIf(ctx, orderID, from, target, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	s.log.Info("payment status updated", "order_id", orderID, "from", from, "to", target)
	return order, nil
}
