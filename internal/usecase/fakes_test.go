package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
)

// In-memory fakes. The order fake keeps a flat record per order and
// rebuilds the aggregate on read, so compare-and-swap semantics match
// a real row store instead of aliasing the caller's pointer.

type orderRecord struct {
	customerID    string
	customerCPF   string
	items         []entity.OrderItem
	status        entity.OrderStatus
	paymentStatus entity.PaymentStatus
	createdAt     time.Time
	updatedAt     time.Time
}

type memOrders struct {
	rows    map[string]*orderRecord
	saveErr error
	// forceCASMiss makes the next guarded update report a lost race.
	forceCASMiss bool
}

func newMemOrders() *memOrders {
	return &memOrders{rows: map[string]*orderRecord{}}
}

func (m *memOrders) Save(_ context.Context, o *entity.Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[o.ID()] = &orderRecord{
		customerID:    o.CustomerID(),
		customerCPF:   o.CustomerCPF(),
		items:         o.Items(),
		status:        o.Status(),
		paymentStatus: o.PaymentStatus(),
		createdAt:     o.CreatedAt(),
		updatedAt:     o.UpdatedAt(),
	}
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (*entity.Order, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return entity.RestoreOrder(id, r.customerID, r.customerCPF, r.items, r.status, r.paymentStatus, r.createdAt, r.updatedAt)
}

func (m *memOrders) FindAll(_ context.Context) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(m.rows))
	for id, r := range m.rows {
		o, err := entity.RestoreOrder(id, r.customerID, r.customerCPF, r.items, r.status, r.paymentStatus, r.createdAt, r.updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) FindByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	all, err := m.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.Order
	for _, o := range all {
		if o.Status() == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) FindByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error) {
	all, err := m.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.Order
	for _, o := range all {
		if o.CustomerID() == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatusIf(_ context.Context, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	r, ok := m.rows[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if m.forceCASMiss || r.status != from {
		m.forceCASMiss = false
		return false, nil
	}
	r.status = to
	r.updatedAt = at
	return true, nil
}

func (m *memOrders) UpdatePaymentStatusIf(_ context.Context, id string, from, to entity.PaymentStatus, at time.Time) (bool, error) {
	r, ok := m.rows[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if m.forceCASMiss || r.paymentStatus != from {
		m.forceCASMiss = false
		return false, nil
	}
	r.paymentStatus = to
	r.updatedAt = at
	return true, nil
}

type memQueue struct {
	byOrder   map[string]*entity.QueueEntry
	updateErr error
}

func newMemQueue() *memQueue {
	return &memQueue{byOrder: map[string]*entity.QueueEntry{}}
}

func (m *memQueue) CreateIfAbsent(_ context.Context, e *entity.QueueEntry) error {
	if _, ok := m.byOrder[e.OrderID]; ok {
		return nil
	}
	cp := *e
	m.byOrder[e.OrderID] = &cp
	return nil
}

func (m *memQueue) FindByOrderID(_ context.Context, orderID string) (*entity.QueueEntry, error) {
	e, ok := m.byOrder[orderID]
	if !ok {
		return nil, ErrQueueNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memQueue) UpdateStatus(_ context.Context, orderID string, status entity.OrderStatus, at time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	e, ok := m.byOrder[orderID]
	if !ok {
		return ErrQueueNotFound
	}
	e.Status = status
	e.UpdatedAt = at
	return nil
}

func (m *memQueue) FindByStatus(_ context.Context, status entity.OrderStatus) ([]*entity.QueueEntry, error) {
	var out []*entity.QueueEntry
	for _, e := range m.byOrder {
		if e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memQueue) FindAll(_ context.Context) ([]*entity.QueueEntry, error) {
	out := make([]*entity.QueueEntry, 0, len(m.byOrder))
	for _, e := range m.byOrder {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

type memCustomers struct {
	byID map[string]*entity.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byID: map[string]*entity.Customer{}}
}

func (m *memCustomers) Save(_ context.Context, c *entity.Customer) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCustomers) FindByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (m *memCustomers) FindByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range m.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (m *memCustomers) FindByCPF(_ context.Context, cpf string) (*entity.Customer, error) {
	for _, c := range m.byID {
		if c.CPF == cpf {
			return c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

type memProducts struct {
	byID map[string]*entity.Product
}

func newMemProducts(products ...*entity.Product) *memProducts {
	m := &memProducts{byID: map[string]*entity.Product{}}
	for _, p := range products {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return &ProductNotFoundError{ID: p.ID}
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return &ProductNotFoundError{ID: id}
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, &ProductNotFoundError{ID: id}
	}
	return p, nil
}

func (m *memProducts) FindByCategory(_ context.Context, category entity.ProductCategory) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.byID {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

type memIdem struct {
	locks  map[string]bool
	values map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (m *memIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "/" + key
	if m.locks[k] {
		return false, nil
	}
	m.locks[k] = true
	return true, nil
}

func (m *memIdem) Release(_ context.Context, scope, key string) error {
	delete(m.locks, scope+"/"+key)
	return nil
}

func (m *memIdem) Remember(_ context.Context, scope, key, value string) error {
	m.values[scope+"/"+key] = value
	return nil
}

func (m *memIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := m.values[scope+"/"+key]
	return v, ok, nil
}

// fakeProvider scripts provider lookups and counts them, so tests can
// assert signature failures short-circuit before any lookup.
type fakeProvider struct {
	payments       map[string]*PaymentDetail
	merchantOrders map[string]*MerchantOrderDetail
	validSignature bool
	paymentCalls   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		payments:       map[string]*PaymentDetail{},
		merchantOrders: map[string]*MerchantOrderDetail{},
		validSignature: true,
	}
}

func (f *fakeProvider) PaymentByID(_ context.Context, id string) (*PaymentDetail, error) {
	f.paymentCalls++
	p, ok := f.payments[id]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

func (f *fakeProvider) MerchantOrderByID(_ context.Context, id string) (*MerchantOrderDetail, error) {
	mo, ok := f.merchantOrders[id]
	if !ok {
		return nil, errors.New("merchant order not found")
	}
	return mo, nil
}

func (f *fakeProvider) CreateQRCode(_ context.Context, req QRCodeRequest) (*QRCode, error) {
	return &QRCode{
		PaymentID:         "pay-" + req.OrderID,
		QRData:            "qr-data",
		ExternalReference: req.OrderID,
		NotificationURL:   req.NotificationURL,
	}, nil
}

func (f *fakeProvider) ValidateSignature([]byte, string) bool { return f.validSignature }

type recNotifier struct {
	created []OrderCreatedMsg
	changed []OrderStatusChangedMsg
	err     error
}

func (n *recNotifier) OrderCreated(_ context.Context, msg OrderCreatedMsg) error {
	if n.err != nil {
		return n.err
	}
	n.created = append(n.created, msg)
	return nil
}

func (n *recNotifier) OrderStatusChanged(_ context.Context, msg OrderStatusChangedMsg) error {
	if n.err != nil {
		return n.err
	}
	n.changed = append(n.changed, msg)
	return nil
}

func burger(id, price string) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     "Classic Burger",
		Price:    decimal.RequireFromString(price),
		Category: entity.CategoryBurger,
	}
}
