package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickbite/kiosk-api/internal/adapter/http/middleware"
	"github.com/quickbite/kiosk-api/internal/logging"
)

type Handlers struct {
	Orders      *OrderHandler
	Queue       *QueueHandler
	Customers   *CustomerHandler
	Products    *ProductHandler
	Payments    *PaymentHandler
	MockPayment *MockPaymentHandler
	Webhook     *WebhookHandler
	MockWebhook *WebhookHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("/checkout", h.Orders.Checkout)
			orders.GET("", h.Orders.ListAll)
			orders.GET("/queue", h.Queue.ListActive)
			orders.GET("/status/:orderStatus", h.Orders.ListByStatus)
			orders.GET("/customer/:customerId", h.Orders.ListByCustomer)
			orders.GET("/:id", h.Orders.GetByID)
			orders.POST("/:id/status", h.Orders.UpdateStatus)
			orders.GET("/:id/payment-status", h.Orders.GetPaymentStatus)
			orders.POST("/:id/payment-status", h.Orders.UpdatePaymentStatus)
		}

		queue := v1.Group("/queue")
		{
			queue.GET("", h.Queue.ListActive)
			queue.GET("/all", h.Queue.ListAll)
			queue.GET("/status/:status", h.Queue.ListByStatus)
			queue.GET("/order/:orderId", h.Queue.GetByOrder)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("/cpf", h.Customers.CreateWithCPF)
			customers.POST("/email", h.Customers.CreateWithEmail)
			customers.GET("/cpf/:cpf", h.Customers.GetByCPF)
			customers.GET("/email/:email", h.Customers.GetByEmail)
		}

		products := v1.Group("/products")
		{
			products.POST("", h.Products.Create)
			products.PUT("/:id", h.Products.Update)
			products.DELETE("/:id", h.Products.Delete)
			products.GET("/:id", h.Products.GetByID)
			products.GET("/category/:category", h.Products.ListByCategory)
		}

		v1.POST("/payments/qrcode", h.Payments.CreateQRCode)

		mock := v1.Group("/mock-payments")
		{
			mock.POST("/:paymentId/approve", h.MockPayment.Approve)
			mock.POST("/:paymentId/reject", h.MockPayment.Reject)
			mock.POST("/:paymentId/cancel", h.MockPayment.Cancel)
			mock.GET("/pending", h.MockPayment.ListPending)
		}
	}

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/payment", h.Webhook.Receive)
		webhooks.POST("/mock-payment", h.MockWebhook.Receive)
	}

	return r
}
