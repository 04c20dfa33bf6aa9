package kafka

import (
	"context"

	"github.com/quickbite/kiosk-api/internal/usecase"
)

// PaymentNotificationHandler feeds broker-delivered provider
// notifications into the same reconciler the HTTP webhook uses. The
// broker path carries no signature; topic ACLs are the trust boundary.
type PaymentNotificationHandler struct {
	webhooks *usecase.WebhookService
}

func NewPaymentNotificationHandler(webhooks *usecase.WebhookService) *PaymentNotificationHandler {
	return &PaymentNotificationHandler{webhooks: webhooks}
}

func (h *PaymentNotificationHandler) Handle(ctx context.Context, msg usecase.PaymentNotificationMsg) error {
	payload := usecase.WebhookPayload{
		ID:   msg.ID,
		Type: msg.Type,
	}
	payload.Data.ID = msg.Data.ID
	return h.webhooks.Process(ctx, nil, payload, "")
}
