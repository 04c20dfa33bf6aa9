package payment

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	simStatusPending   = "pending"
	simStatusApproved  = "approved"
	simStatusRejected  = "rejected"
	simStatusCancelled = "cancelled"
)

type simPayment struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemoryPaymentStore holds simulated payments. It is injected into
// the Simulator and scoped to the process or the test, never a
// package-level singleton.
type MemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*simPayment
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{payments: make(map[string]*simPayment)}
}

func (s *MemoryPaymentStore) put(p *simPayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *MemoryPaymentStore) get(id string) (*simPayment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (s *MemoryPaymentStore) setStatus(id, status string, onlyFromPending bool, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return false
	}
	if onlyFromPending && p.Status != simStatusPending {
		return true
	}
	p.Status = status
	p.UpdatedAt = at
	return true
}

func (s *MemoryPaymentStore) byOrder(orderID string) []*simPayment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*simPayment
	for _, p := range s.payments {
		if p.OrderID == orderID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

func (s *MemoryPaymentStore) withStatus(status string) []*simPayment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*simPayment
	for _, p := range s.payments {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

func (s *MemoryPaymentStore) deleteOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, p := range s.payments {
		if p.CreatedAt.Before(cutoff) {
			delete(s.payments, id)
			n++
		}
	}
	return n
}
