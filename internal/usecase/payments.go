package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentService creates provider payment intents (QR codes) for
// orders. The amount is computed from the order's items at current
// catalog prices, same as every other read path.
type PaymentService struct {
	orders   OrderRepo
	products ProductRepo
	provider PaymentProvider
}

func NewPaymentService(orders OrderRepo, products ProductRepo, provider PaymentProvider) *PaymentService {
	return &PaymentService{orders: orders, products: products, provider: provider}
}

func (s *PaymentService) CreateQRCode(ctx context.Context, orderID, notificationURL string) (*QRCode, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range order.Items() {
		product, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return s.provider.CreateQRCode(ctx, QRCodeRequest{
		OrderID:         order.ID(),
		Title:           fmt.Sprintf("Order %s", order.ID()),
		Description:     fmt.Sprintf("%d item(s)", len(order.Items())),
		TotalAmount:     total,
		NotificationURL: notificationURL,
	})
}
