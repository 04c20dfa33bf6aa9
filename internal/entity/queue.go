package entity

import "time"

// QueueEntry is a denormalized shadow of an order's status, kept in
// sync on every status change. It is a derived index, not a source of
// truth; losing it only costs the cheap "what's outstanding" query.
type QueueEntry struct {
	ID        string
	OrderID   string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
