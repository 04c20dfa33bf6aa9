package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/adapter/payment"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

// PaymentHandler creates payment intents against the configured
// provider.
type PaymentHandler struct {
	payments        *usecase.PaymentService
	notificationURL string
}

func NewPaymentHandler(payments *usecase.PaymentService, notificationURL string) *PaymentHandler {
	return &PaymentHandler{payments: payments, notificationURL: notificationURL}
}

type createQRCodeReq struct {
	OrderID string `json:"orderId" binding:"required"`
}

func (h *PaymentHandler) CreateQRCode(c *gin.Context) {
	var req createQRCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	qr, err := h.payments.CreateQRCode(c.Request.Context(), req.OrderID, h.notificationURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, qr)
}

// MockPaymentHandler exposes the simulator's settlement controls so a
// demo or test run can approve and reject payments by hand.
type MockPaymentHandler struct {
	sim *payment.Simulator
}

func NewMockPaymentHandler(sim *payment.Simulator) *MockPaymentHandler {
	return &MockPaymentHandler{sim: sim}
}

func (h *MockPaymentHandler) Approve(c *gin.Context) {
	h.settle(c, h.sim.Approve)
}

func (h *MockPaymentHandler) Reject(c *gin.Context) {
	h.settle(c, h.sim.Reject)
}

func (h *MockPaymentHandler) Cancel(c *gin.Context) {
	h.settle(c, h.sim.Cancel)
}

func (h *MockPaymentHandler) settle(c *gin.Context, fn func(string) error) {
	if err := fn(c.Param("paymentId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentId": c.Param("paymentId")})
}

func (h *MockPaymentHandler) ListPending(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.PendingPayments())
}
