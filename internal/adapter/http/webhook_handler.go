package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/logging"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

const maxWebhookBody = 64 * 1024

// WebhookHandler receives provider notifications. One instance per
// provider flavor; both delegate to the shared reconciler.
type WebhookHandler struct {
	webhooks *usecase.WebhookService
}

func NewWebhookHandler(webhooks *usecase.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Receive validates the signature against the raw body before the
// payload is even parsed, so malformed or forged input has no effect.
func (h *WebhookHandler) Receive(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		signature = c.GetHeader("X-Webhook-Signature")
	}

	var payload usecase.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed webhook payload"})
		return
	}

	if err := h.webhooks.Process(c.Request.Context(), raw, payload, signature); err != nil {
		logging.From(c).Warn("webhook rejected", "type", payload.Type, "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed successfully"})
}
