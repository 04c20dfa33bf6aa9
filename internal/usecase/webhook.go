package usecase

import (
	"context"
	"log/slog"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/logging"
)

const (
	notificationTypePayment       = "payment"
	notificationTypeMerchantOrder = "merchant_order"
)

// providerStatusMap translates the provider's payment vocabulary into
// internal payment status. Unrecognized values default to Pending.
var providerStatusMap = map[string]entity.PaymentStatus{
	"approved":     entity.PaymentStatusApproved,
	"pending":      entity.PaymentStatusPending,
	"in_process":   entity.PaymentStatusPending,
	"authorized":   entity.PaymentStatusPending,
	"in_mediation": entity.PaymentStatusPending,
	"rejected":     entity.PaymentStatusRejected,
	"charged_back": entity.PaymentStatusRejected,
	"cancelled":    entity.PaymentStatusCancelled,
	"refunded":     entity.PaymentStatusCancelled,
}

func MapProviderStatus(providerStatus string) entity.PaymentStatus {
	if st, ok := providerStatusMap[providerStatus]; ok {
		return st
	}
	return entity.PaymentStatusPending
}

// WebhookPayload is the provider notification envelope, shared by the
// live and simulated providers.
type WebhookPayload struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Action      string `json:"action,omitempty"`
	DateCreated string `json:"date_created,omitempty"`
	LiveMode    bool   `json:"live_mode,omitempty"`
}

// WebhookService reconciles provider notifications into internal
// payment state. It is parameterized by the provider so the live
// client and the simulator share one implementation.
type WebhookService struct {
	provider PaymentProvider
	orders   *OrderService
	log      *slog.Logger
}

func NewWebhookService(provider PaymentProvider, orders *OrderService) *WebhookService {
	return &WebhookService{
		provider: provider,
		orders:   orders,
		log:      logging.New("webhook"),
	}
}

// Process validates the signature against the raw body, then the
// payload shape, before any provider lookup or state mutation.
func (s *WebhookService) Process(ctx context.Context, raw []byte, payload WebhookPayload, signature string) error {
	label := metricType(payload.Type)

	if signature != "" && !s.provider.ValidateSignature(raw, signature) {
		webhooksTotal.WithLabelValues(label, "invalid_signature").Inc()
		return ErrInvalidSignature
	}

	if err := validatePayload(payload); err != nil {
		webhooksTotal.WithLabelValues(label, "malformed").Inc()
		return err
	}

	var err error
	switch payload.Type {
	case notificationTypePayment:
		err = s.processPayment(ctx, payload.Data.ID)
	case notificationTypeMerchantOrder:
		err = s.processMerchantOrder(ctx, payload.Data.ID)
	}
	if err != nil {
		webhooksTotal.WithLabelValues(label, "error").Inc()
		return err
	}
	webhooksTotal.WithLabelValues(label, "ok").Inc()
	return nil
}

// metricType folds attacker-controlled notification types into a fixed
// label set so metric cardinality stays bounded.
func metricType(t string) string {
	if t == notificationTypePayment || t == notificationTypeMerchantOrder {
		return t
	}
	return "unknown"
}

func validatePayload(p WebhookPayload) error {
	if p.ID == 0 || p.Type == "" || p.Data.ID == "" {
		return ErrMalformedWebhook
	}
	if p.Type != notificationTypePayment && p.Type != notificationTypeMerchantOrder {
		return ErrUnsupportedNotificationType
	}
	return nil
}

func (s *WebhookService) processPayment(ctx context.Context, paymentID string) error {
	detail, err := s.provider.PaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if detail.ExternalReference == "" {
		return ErrMissingExternalReference
	}

	status := MapProviderStatus(detail.Status)
	if _, err := s.orders.UpdatePaymentStatus(ctx, detail.ExternalReference, status); err != nil {
		return err
	}

	s.log.Info("payment notification applied",
		"payment_id", paymentID,
		"order_id", detail.ExternalReference,
		"provider_status", detail.Status,
		"status", status,
	)
	return nil
}

func (s *WebhookService) processMerchantOrder(ctx context.Context, merchantOrderID string) error {
	detail, err := s.provider.MerchantOrderByID(ctx, merchantOrderID)
	if err != nil {
		return err
	}
	if detail.ExternalReference == "" {
		return ErrMissingExternalReference
	}

	// Only a fully settled merchant order approves the payment;
	// partial payment leaves the order untouched.
	if detail.Status != "closed" || detail.PaidAmount.LessThan(detail.TotalAmount) {
		s.log.Info("merchant order not fully paid",
			"merchant_order_id", merchantOrderID,
			"paid", detail.PaidAmount.StringFixed(2),
			"total", detail.TotalAmount.StringFixed(2),
		)
		return nil
	}

	if _, err := s.orders.UpdatePaymentStatus(ctx, detail.ExternalReference, entity.PaymentStatusApproved); err != nil {
		return err
	}

	s.log.Info("merchant order settled",
		"merchant_order_id", merchantOrderID,
		"order_id", detail.ExternalReference,
	)
	return nil
}
