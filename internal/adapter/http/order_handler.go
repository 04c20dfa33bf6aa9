package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/logging"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type OrderHandler struct {
	checkout *usecase.CheckoutService
	orders   *usecase.OrderService
}

func NewOrderHandler(checkout *usecase.CheckoutService, orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type checkoutItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type checkoutReq struct {
	CustomerID  string            `json:"customerId"`
	CustomerCPF string            `json:"customerCpf"`
	Items       []checkoutItemReq `json:"items" binding:"required"`
}

type orderResp struct {
	ID            string               `json:"id"`
	CustomerID    string               `json:"customerId,omitempty"`
	CustomerCPF   string               `json:"customerCpf,omitempty"`
	Items         []entity.OrderItem   `json:"items"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func toOrderResp(o *entity.Order) orderResp {
	return orderResp{
		ID:            o.ID(),
		CustomerID:    o.CustomerID(),
		CustomerCPF:   o.CustomerCPF(),
		Items:         o.Items(),
		Status:        o.Status(),
		PaymentStatus: o.PaymentStatus(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func toOrderResps(orders []*entity.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return out
}

// Checkout validates a cart, prices it against the catalog and
// creates the order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.checkout.Execute(c.Request.Context(), usecase.CheckoutInput{
		CustomerID:     req.CustomerID,
		CustomerCPF:    req.CustomerCPF,
		Items:          items,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResps(orders))
}

func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status := entity.OrderStatus(c.Param("orderStatus"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}
	orders, err := h.orders.FindByStatus(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResps(orders))
}

func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	orders, err := h.orders.FindByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResps(orders))
}

type updateStatusReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	orderID := c.Param("id")
	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	logging.From(c).Info("order status updated", "order_id", orderID, "status", req.Status)
	c.JSON(http.StatusOK, gin.H{
		"orderId":   order.ID(),
		"status":    order.Status(),
		"updatedAt": order.UpdatedAt(),
	})
}

func (h *OrderHandler) GetPaymentStatus(c *gin.Context) {
	result, err := h.orders.GetPaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePaymentStatusReq struct {
	PaymentStatus entity.PaymentStatus `json:"paymentStatus" binding:"required"`
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req updatePaymentStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if !req.PaymentStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status"})
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId":       order.ID(),
		"paymentStatus": order.PaymentStatus(),
		"updatedAt":     order.UpdatedAt(),
	})
}
