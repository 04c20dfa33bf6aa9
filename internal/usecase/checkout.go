package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/logging"
)

type CheckoutInput struct {
	CustomerID     string
	CustomerCPF    string
	Items          []entity.OrderItem
	IdempotencyKey string
}

// ValidatedItem carries the price observed at checkout time. It is
// returned to the caller but never persisted on the order.
type ValidatedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type CheckoutResult struct {
	OrderID       string               `json:"orderId"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	Items         []ValidatedItem      `json:"items"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// CheckoutService validates a cart, prices it against the catalog,
// creates the order and registers it in the queue.
type CheckoutService struct {
	orders    OrderRepo
	queue     QueueRepo
	customers CustomerRepo
	products  ProductRepo
	idem      IdempotencyStore
	notifier  Notifier
	delay     time.Duration
	log       *slog.Logger
	clock     func() time.Time
	newID     func() string
}

func NewCheckoutService(orders OrderRepo, queue QueueRepo, customers CustomerRepo, products ProductRepo, idem IdempotencyStore, notifier Notifier, delay time.Duration) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		queue:     queue,
		customers: customers,
		products:  products,
		idem:      idem,
		notifier:  notifier,
		delay:     delay,
		log:       logging.New("checkout"),
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock and WithIDGen override time and id sources; used by tests.
func (s *CheckoutService) WithClock(clock func() time.Time) *CheckoutService {
	s.clock = clock
	return s
}

func (s *CheckoutService) WithIDGen(newID func() string) *CheckoutService {
	s.newID = newID
	return s
}

func (s *CheckoutService) Execute(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if err := s.validateInput(in); err != nil {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if in.CustomerID != "" {
		if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
			checkoutsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
	}

	validated, total, err := s.priceItems(ctx, in.Items)
	if err != nil {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Retried request with the same idempotency key returns the
	// original order, re-priced against the current catalog.
	lockHeld := false
	if in.IdempotencyKey != "" && s.idem != nil {
		scope := idemScope(in)
		if orderID, ok, _ := s.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			return s.replay(ctx, orderID, validated, total)
		}
		locked, err := s.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrDuplicateCheckout
		}
		lockHeld = true
	}

	// A failed checkout must not wedge the key for the full TTL; the
	// retry should get a fresh attempt, not ErrDuplicateCheckout.
	release := func() {
		if lockHeld {
			_ = s.idem.Release(context.WithoutCancel(ctx), idemScope(in), in.IdempotencyKey)
		}
	}

	now := s.clock()
	order, err := entity.NewOrder(s.newID(), in.CustomerID, in.CustomerCPF, in.Items, now)
	if err != nil {
		release()
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Simulated payment-processing pause: fixed and bounded, still
	// part of the same unit of work.
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		release()
		checkoutsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	entry := &entity.QueueEntry{
		ID:        s.newID(),
		OrderID:   order.ID(),
		Status:    order.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.queue.CreateIfAbsent(ctx, entry); err != nil {
		release()
		checkoutsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		_ = s.idem.Remember(ctx, idemScope(in), in.IdempotencyKey, order.ID())
	}
	if s.notifier != nil {
		if err := s.notifier.OrderCreated(ctx, OrderCreatedMsg{
			OrderID:     order.ID(),
			CustomerID:  order.CustomerID(),
			TotalAmount: total.StringFixed(2),
			CreatedAt:   now,
		}); err != nil {
			s.log.Warn("order created notification failed", "order_id", order.ID(), "err", err)
		}
	}

	checkoutsTotal.WithLabelValues("created").Inc()
	s.log.Info("order created",
		"order_id", order.ID(),
		"items", len(validated),
		"total", total.StringFixed(2),
	)

	return &CheckoutResult{
		OrderID:       order.ID(),
		Status:        order.Status(),
		PaymentStatus: order.PaymentStatus(),
		TotalAmount:   total,
		Items:         validated,
		CreatedAt:     now,
	}, nil
}

func (s *CheckoutService) validateInput(in CheckoutInput) error {
	if len(in.Items) == 0 {
		return entity.ErrEmptyOrder
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return entity.ErrInvalidQuantity
		}
	}
	if in.CustomerID != "" && in.CustomerCPF != "" {
		return ErrAmbiguousCustomer
	}
	return nil
}

func (s *CheckoutService) priceItems(ctx context.Context, items []entity.OrderItem) ([]ValidatedItem, decimal.Decimal, error) {
	validated := make([]ValidatedItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		product, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		validated = append(validated, ValidatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     product.Price,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return validated, total, nil
}

func (s *CheckoutService) replay(ctx context.Context, orderID string, validated []ValidatedItem, total decimal.Decimal) (*CheckoutResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	checkoutsTotal.WithLabelValues("replayed").Inc()
	return &CheckoutResult{
		OrderID:       order.ID(),
		Status:        order.Status(),
		PaymentStatus: order.PaymentStatus(),
		TotalAmount:   total,
		Items:         validated,
		CreatedAt:     order.CreatedAt(),
	}, nil
}

func idemScope(in CheckoutInput) string {
	if in.CustomerID != "" {
		return in.CustomerID
	}
	if in.CustomerCPF != "" {
		return in.CustomerCPF
	}
	return "anonymous"
}
