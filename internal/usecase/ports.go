package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
)

// Persistence and collaborator ports (kept out of the domain).

type OrderRepo interface {
	Save(ctx context.Context, o *entity.Order) error
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindAll(ctx context.Context) ([]*entity.Order, error)
	FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error)

	// Guarded compare-and-swap updates: false with a nil error means
	// the row exists but its status no longer matches from (a
	// concurrent writer won the race).
	UpdateStatusIf(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) (bool, error)
	UpdatePaymentStatusIf(ctx context.Context, id string, from, to entity.PaymentStatus, at time.Time) (bool, error)
}

type QueueRepo interface {
	// CreateIfAbsent is keyed by order id so checkout retries cannot
	// duplicate queue entries.
	CreateIfAbsent(ctx context.Context, e *entity.QueueEntry) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.QueueEntry, error)
	UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus, at time.Time) error
	FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.QueueEntry, error)
	FindAll(ctx context.Context) ([]*entity.QueueEntry, error)
}

type CustomerRepo interface {
	Save(ctx context.Context, c *entity.Customer) error
	FindByID(ctx context.Context, id string) (*entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	FindByCPF(ctx context.Context, cpf string) (*entity.Customer, error)
}

type ProductRepo interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindByCategory(ctx context.Context, category entity.ProductCategory) ([]*entity.Product, error)
}

// PaymentDetail is the provider's view of a single payment.
type PaymentDetail struct {
	ID                string
	Status            string
	StatusDetail      string
	TransactionAmount decimal.Decimal
	ExternalReference string
}

// MerchantOrderDetail is the provider's view of a whole order and its
// settlement progress.
type MerchantOrderDetail struct {
	ID                string
	Status            string
	ExternalReference string
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
}

type QRCodeRequest struct {
	OrderID         string
	Title           string
	Description     string
	TotalAmount     decimal.Decimal
	NotificationURL string
}

type QRCode struct {
	PaymentID         string
	QRData            string
	QRCodeBase64      string
	ExternalReference string
	NotificationURL   string
}

// PaymentProvider abstracts the external payment API; the live client
// and the simulator both implement it, so the reconciler is shared.
type PaymentProvider interface {
	PaymentByID(ctx context.Context, id string) (*PaymentDetail, error)
	MerchantOrderByID(ctx context.Context, id string) (*MerchantOrderDetail, error)
	CreateQRCode(ctx context.Context, req QRCodeRequest) (*QRCode, error)
	ValidateSignature(payload []byte, signature string) bool
}

// IdempotencyStore deduplicates checkout retries by client-supplied key.
// Release drops a held lock so a failed checkout does not wedge the
// key until the TTL expires.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// StatusCache is a best-effort read cache; callers ignore its errors.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, error)
}

// Notifier publishes order lifecycle events for kitchen displays.
// Publishing is best-effort: the order flow never fails on it.
type Notifier interface {
	OrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	OrderStatusChanged(ctx context.Context, msg OrderStatusChangedMsg) error
}
