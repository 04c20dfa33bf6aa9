package usecase

import "time"

type OrderCreatedMsg struct {
	OrderID     string    `json:"orderId"`
	CustomerID  string    `json:"customerId,omitempty"`
	TotalAmount string    `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatusChangedMsg struct {
	OrderID   string    `json:"orderId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}

// PaymentNotificationMsg mirrors the provider webhook payload so the
// same reconciliation path can be fed from a broker topic.
type PaymentNotificationMsg struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}
