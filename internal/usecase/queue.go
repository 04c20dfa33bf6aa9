package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
)

// ItemDetail is a line item joined with catalog data and priced at
// read time.
type ItemDetail struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Total              decimal.Decimal `json:"total"`
}

type OrderDetail struct {
	OrderID       string               `json:"orderId"`
	CustomerID    string               `json:"customerId,omitempty"`
	CustomerCPF   string               `json:"customerCpf,omitempty"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	Items         []ItemDetail         `json:"items"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Display priority: Ready > InPreparation > Received > everything else.
var statusPriority = map[entity.OrderStatus]int{
	entity.OrderStatusReady:         3,
	entity.OrderStatusInPreparation: 2,
	entity.OrderStatusReceived:      1,
}

// QueueService produces the kitchen display view and the raw queue
// entry accessors.
type QueueService struct {
	orders   OrderRepo
	queue    QueueRepo
	products ProductRepo
	svc      *OrderService
}

func NewQueueService(orders OrderRepo, queue QueueRepo, products ProductRepo, svc *OrderService) *QueueService {
	return &QueueService{orders: orders, queue: queue, products: products, svc: svc}
}

// ListActive returns all non-finished orders joined with product
// details, highest display priority first, oldest first within the
// same priority. Any unresolvable product fails the whole call: the
// display is all-or-nothing, never partial.
func (s *QueueService) ListActive(ctx context.Context) ([]OrderDetail, error) {
	all, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*entity.Order, 0, len(all))
	for _, o := range all {
		if o.IsActive() {
			active = append(active, o)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		pi, pj := statusPriority[active[i].Status()], statusPriority[active[j].Status()]
		if pi != pj {
			return pi > pj
		}
		return active[i].CreatedAt().Before(active[j].CreatedAt())
	})

	details := make([]OrderDetail, 0, len(active))
	for _, o := range active {
		d, err := s.describe(ctx, o)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *QueueService) describe(ctx context.Context, o *entity.Order) (*OrderDetail, error) {
	items := make([]ItemDetail, 0, len(o.Items()))
	total := decimal.Zero
	for _, it := range o.Items() {
		product, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, ItemDetail{
			ProductID:          it.ProductID,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			Quantity:           it.Quantity,
			Price:              product.Price,
			Total:              lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return &OrderDetail{
		OrderID:       o.ID(),
		CustomerID:    o.CustomerID(),
		CustomerCPF:   o.CustomerCPF(),
		Status:        o.Status(),
		PaymentStatus: o.PaymentStatus(),
		Items:         items,
		TotalAmount:   total,
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}, nil
}

// UpdateStatus delegates the transition to the order service, which
// mirrors the result into the queue entry.
func (s *QueueService) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	return s.svc.UpdateStatus(ctx, orderID, status)
}

func (s *QueueService) FindByOrder(ctx context.Context, orderID string) (*entity.QueueEntry, error) {
	return s.queue.FindByOrderID(ctx, orderID)
}

func (s *QueueService) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.QueueEntry, error) {
	return s.queue.FindByStatus(ctx, status)
}

func (s *QueueService) ListAll(ctx context.Context) ([]*entity.QueueEntry, error) {
	return s.queue.FindAll(ctx)
}
