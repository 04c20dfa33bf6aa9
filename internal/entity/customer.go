package entity

import "time"

// Customer is immutable once created; the core only checks existence
// and attributes orders to it.
type Customer struct {
	ID        string
	Name      string
	CPF       string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
