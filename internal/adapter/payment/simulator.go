package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/logging"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

// Simulator stands in for the live provider during development and
// demos. It implements the same PaymentProvider port, so the webhook
// reconciler does not know which flavor it is talking to.
type Simulator struct {
	store         *MemoryPaymentStore
	webhookSecret string
	log           *slog.Logger
	clock         func() time.Time
	newID         func() string
}

func NewSimulator(store *MemoryPaymentStore, webhookSecret string) *Simulator {
	return &Simulator{
		store:         store,
		webhookSecret: webhookSecret,
		log:           logging.New("payment-simulator"),
		clock:         time.Now,
		newID:         func() string { return "sim_" + uuid.NewString() },
	}
}

var _ usecase.PaymentProvider = (*Simulator)(nil)

func (s *Simulator) CreateQRCode(ctx context.Context, req usecase.QRCodeRequest) (*usecase.QRCode, error) {
	now := s.clock()
	p := &simPayment{
		ID:        s.newID(),
		OrderID:   req.OrderID,
		Amount:    req.TotalAmount,
		Status:    simStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.put(p)

	s.log.Info("simulated qr code created",
		"payment_id", p.ID,
		"order_id", req.OrderID,
		"amount", req.TotalAmount.StringFixed(2),
	)

	return &usecase.QRCode{
		PaymentID:         p.ID,
		QRData:            fmt.Sprintf("sim_qr:%s:%s", req.OrderID, p.ID),
		QRCodeBase64:      s.encodeQR(req.OrderID, req.TotalAmount, now),
		ExternalReference: req.OrderID,
		NotificationURL:   req.NotificationURL,
	}, nil
}

func (s *Simulator) PaymentByID(ctx context.Context, id string) (*usecase.PaymentDetail, error) {
	p, ok := s.store.get(id)
	if !ok {
		return nil, fmt.Errorf("simulated payment %s not found", id)
	}
	return &usecase.PaymentDetail{
		ID:                p.ID,
		Status:            p.Status,
		StatusDetail:      statusDetail(p.Status),
		TransactionAmount: p.Amount,
		ExternalReference: p.OrderID,
	}, nil
}

// MerchantOrderByID aggregates the simulated payments of an order:
// the merchant order closes once approved payments cover the total.
func (s *Simulator) MerchantOrderByID(ctx context.Context, orderID string) (*usecase.MerchantOrderDetail, error) {
	payments := s.store.byOrder(orderID)
	if len(payments) == 0 {
		return nil, fmt.Errorf("no simulated payments for order %s", orderID)
	}

	total := decimal.Zero
	paid := decimal.Zero
	for _, p := range payments {
		total = decimal.Max(total, p.Amount)
		if p.Status == simStatusApproved {
			paid = paid.Add(p.Amount)
		}
	}

	status := "opened"
	if paid.GreaterThanOrEqual(total) {
		status = "closed"
	}

	return &usecase.MerchantOrderDetail{
		ID:                orderID,
		Status:            status,
		ExternalReference: orderID,
		TotalAmount:       total,
		PaidAmount:        paid,
	}, nil
}

func (s *Simulator) ValidateSignature(payload []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	signature = strings.TrimPrefix(signature, "sha256=")
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Approve settles a pending payment; replays on an already settled
// payment are no-ops, matching provider behavior.
func (s *Simulator) Approve(id string) error {
	return s.transition(id, simStatusApproved, true)
}

func (s *Simulator) Reject(id string) error {
	return s.transition(id, simStatusRejected, true)
}

func (s *Simulator) Cancel(id string) error {
	return s.transition(id, simStatusCancelled, false)
}

func (s *Simulator) transition(id, status string, onlyFromPending bool) error {
	if !s.store.setStatus(id, status, onlyFromPending, s.clock()) {
		return fmt.Errorf("simulated payment %s not found", id)
	}
	s.log.Info("simulated payment updated", "payment_id", id, "status", status)
	return nil
}

type PendingPayment struct {
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (s *Simulator) PendingPayments() []PendingPayment {
	payments := s.store.withStatus(simStatusPending)
	out := make([]PendingPayment, 0, len(payments))
	for _, p := range payments {
		out = append(out, PendingPayment{
			PaymentID: p.ID,
			OrderID:   p.OrderID,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// PruneOlderThan drops stale simulated payments, mostly for long
// running demo environments.
func (s *Simulator) PruneOlderThan(age time.Duration) int {
	return s.store.deleteOlderThan(s.clock().Add(-age))
}

func (s *Simulator) encodeQR(orderID string, amount decimal.Decimal, at time.Time) string {
	blob, _ := json.Marshal(map[string]any{
		"orderId":   orderID,
		"amount":    amount,
		"timestamp": at.UTC(),
		"simulated": true,
	})
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(blob)
}

func statusDetail(status string) string {
	switch status {
	case simStatusPending:
		return "payment pending approval"
	case simStatusApproved:
		return "payment approved"
	case simStatusRejected:
		return "payment rejected"
	case simStatusCancelled:
		return "payment cancelled"
	}
	return "unknown status"
}
