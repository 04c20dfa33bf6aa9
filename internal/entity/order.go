package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusReceived      OrderStatus = "RECEIVED"
	OrderStatusInPreparation OrderStatus = "IN_PREPARATION"
	OrderStatusReady         OrderStatus = "READY"
	OrderStatusFinished      OrderStatus = "FINISHED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Transition tables are data, not branches, so tests can enumerate
// the full legality matrix.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:      {OrderStatusInPreparation, OrderStatusCancelled},
	OrderStatusInPreparation: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:         {OrderStatusFinished, OrderStatusCancelled},
	OrderStatusFinished:      {},
	OrderStatusCancelled:     {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusApproved:  {PaymentStatusCancelled},
	PaymentStatusRejected:  {PaymentStatusPending, PaymentStatusCancelled},
	PaymentStatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order owns its status pair and item list. Prices are never stored
// on the order; totals are derived from the catalog at read time.
type Order struct {
	id            string
	customerID    string
	customerCPF   string
	items         []OrderItem
	status        OrderStatus
	paymentStatus PaymentStatus
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOrder(id, customerID, customerCPF string, items []OrderItem, now time.Time) (*Order, error) {
	if id == "" {
		return nil, ErrMissingOrderID
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	cp := make([]OrderItem, len(items))
	copy(cp, items)
	return &Order{
		id:            id,
		customerID:    customerID,
		customerCPF:   customerCPF,
		items:         cp,
		status:        OrderStatusReceived,
		paymentStatus: PaymentStatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// RestoreOrder rebuilds an aggregate from persisted state. Structural
// validation still applies; the stored status pair is taken as-is.
func RestoreOrder(id, customerID, customerCPF string, items []OrderItem, status OrderStatus, paymentStatus PaymentStatus, createdAt, updatedAt time.Time) (*Order, error) {
	o, err := NewOrder(id, customerID, customerCPF, items, createdAt)
	if err != nil {
		return nil, err
	}
	o.status = status
	o.paymentStatus = paymentStatus
	o.updatedAt = updatedAt
	return o, nil
}

func (o *Order) ID() string                   { return o.id }
func (o *Order) CustomerID() string           { return o.customerID }
func (o *Order) CustomerCPF() string          { return o.customerCPF }
func (o *Order) Status() OrderStatus          { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// Items returns a copy so callers cannot mutate aggregate state.
func (o *Order) Items() []OrderItem {
	cp := make([]OrderItem, len(o.items))
	copy(cp, o.items)
	return cp
}

func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, s := range orderTransitions[o.status] {
		if s == target {
			return true
		}
	}
	return false
}

func (o *Order) CanTransitionPaymentTo(target PaymentStatus) bool {
	for _, s := range paymentTransitions[o.paymentStatus] {
		if s == target {
			return true
		}
	}
	return false
}

func (o *Order) TransitionStatus(target OrderStatus, now time.Time) error {
	if !o.CanTransitionTo(target) {
		return &StatusTransitionError{From: o.status, To: target}
	}
	o.status = target
	o.updatedAt = now
	return nil
}

func (o *Order) TransitionPayment(target PaymentStatus, now time.Time) error {
	if !o.CanTransitionPaymentTo(target) {
		return &PaymentTransitionError{From: o.paymentStatus, To: target}
	}
	o.paymentStatus = target
	o.updatedAt = now
	return nil
}

func (o *Order) IsActive() bool          { return o.status != OrderStatusFinished }
func (o *Order) IsReadyForPickup() bool  { return o.status == OrderStatusReady }
func (o *Order) IsPaymentApproved() bool { return o.paymentStatus == PaymentStatusApproved }
