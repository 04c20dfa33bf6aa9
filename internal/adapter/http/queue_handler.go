package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/kiosk-api/internal/entity"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type QueueHandler struct {
	queue *usecase.QueueService
}

func NewQueueHandler(queue *usecase.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// ListActive returns the kitchen display view: non-finished orders,
// highest priority first, oldest first within a stage.
func (h *QueueHandler) ListActive(c *gin.Context) {
	orders, err := h.queue.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"totalCount": len(orders),
	})
}

type queueEntryResp struct {
	ID        string             `json:"id"`
	OrderID   string             `json:"orderId"`
	Status    entity.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toQueueEntryResps(entries []*entity.QueueEntry) []queueEntryResp {
	out := make([]queueEntryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, queueEntryResp{
			ID:        e.ID,
			OrderID:   e.OrderID,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return out
}

func (h *QueueHandler) ListByStatus(c *gin.Context) {
	status := entity.OrderStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}
	entries, err := h.queue.ListByStatus(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQueueEntryResps(entries))
}

func (h *QueueHandler) ListAll(c *gin.Context) {
	entries, err := h.queue.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQueueEntryResps(entries))
}

func (h *QueueHandler) GetByOrder(c *gin.Context) {
	entry, err := h.queue.FindByOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queueEntryResp{
		ID:        entry.ID,
		OrderID:   entry.OrderID,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	})
}
