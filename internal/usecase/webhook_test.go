package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/kiosk-api/internal/entity"
)

type webhookFixture struct {
	svc      *WebhookService
	provider *fakeProvider
	orders   *memOrders
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		provider: newFakeProvider(),
		orders:   newMemOrders(),
	}
	orderSvc := NewOrderService(f.orders, newMemQueue(), RequireApprovedPayment{}, nil, nil).
		WithClock(func() time.Time { return testNow })
	f.svc = NewWebhookService(f.provider, orderSvc)
	return f
}

func (f *webhookFixture) seedOrder(t *testing.T, id string, pay entity.PaymentStatus) {
	t.Helper()
	o, err := entity.RestoreOrder(id, "", "", []entity.OrderItem{{ProductID: "p1", Quantity: 1}},
		entity.OrderStatusReceived, pay, testNow, testNow)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(context.Background(), o))
}

func paymentPayload(dataID string) WebhookPayload {
	p := WebhookPayload{ID: 101, Type: "payment"}
	p.Data.ID = dataID
	return p
}

func TestWebhookRejectsInvalidSignatureBeforeLookup(t *testing.T) {
	f := newWebhookFixture(t)
	f.provider.validSignature = false

	err := f.svc.Process(context.Background(), []byte(`{}`), paymentPayload("pay-1"), "sha256=bad")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Zero(t, f.provider.paymentCalls, "no provider lookup on bad signature")
}

func TestWebhookEmptySignatureSkipsValidation(t *testing.T) {
	f := newWebhookFixture(t)
	f.provider.validSignature = false
	f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
	f.provider.payments["pay-1"] = &PaymentDetail{ID: "pay-1", Status: "approved", ExternalReference: "ord-1"}

	err := f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), "")
	require.NoError(t, err)
}

func TestWebhookMalformedPayload(t *testing.T) {
	f := newWebhookFixture(t)

	tests := []struct {
		name    string
		payload WebhookPayload
		wantErr error
	}{
		{"missing id", func() WebhookPayload { p := paymentPayload("pay-1"); p.ID = 0; return p }(), ErrMalformedWebhook},
		{"missing type", func() WebhookPayload { p := paymentPayload("pay-1"); p.Type = ""; return p }(), ErrMalformedWebhook},
		{"missing data id", paymentPayload(""), ErrMalformedWebhook},
		{"unknown type", func() WebhookPayload { p := paymentPayload("pay-1"); p.Type = "subscription"; return p }(), ErrUnsupportedNotificationType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.Process(context.Background(), nil, tc.payload, "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestWebhookAppliesProviderStatus(t *testing.T) {
	tests := []struct {
		providerStatus string
		want           entity.PaymentStatus
	}{
		{"approved", entity.PaymentStatusApproved},
		{"rejected", entity.PaymentStatusRejected},
		{"charged_back", entity.PaymentStatusRejected},
		{"cancelled", entity.PaymentStatusCancelled},
		{"refunded", entity.PaymentStatusCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.providerStatus, func(t *testing.T) {
			f := newWebhookFixture(t)
			f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
			f.provider.payments["pay-1"] = &PaymentDetail{
				ID: "pay-1", Status: tc.providerStatus, ExternalReference: "ord-1",
			}

			require.NoError(t, f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), ""))

			got, _ := f.orders.FindByID(context.Background(), "ord-1")
			assert.Equal(t, tc.want, got.PaymentStatus())
		})
	}
}

func TestWebhookMetricLabelsAreBounded(t *testing.T) {
	f := newWebhookFixture(t)

	unknown := webhooksTotal.WithLabelValues("unknown", "malformed")
	before := testutil.ToFloat64(unknown)

	for _, typ := range []string{"subscription", "point_integration_wh", "garbage-1"} {
		p := WebhookPayload{ID: 101, Type: typ}
		p.Data.ID = "pay-1"
		err := f.svc.Process(context.Background(), nil, p, "")
		assert.ErrorIs(t, err, ErrUnsupportedNotificationType)
	}

	// Arbitrary provider types all land on the one "unknown" series.
	assert.Equal(t, before+3, testutil.ToFloat64(unknown))
}

func TestMapProviderStatusDefaultsToPending(t *testing.T) {
	assert.Equal(t, entity.PaymentStatusPending, MapProviderStatus("in_process"))
	assert.Equal(t, entity.PaymentStatusPending, MapProviderStatus("authorized"))
	assert.Equal(t, entity.PaymentStatusPending, MapProviderStatus("something_new"))
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	f := newWebhookFixture(t)
	f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
	f.provider.payments["pay-1"] = &PaymentDetail{ID: "pay-1", Status: "approved", ExternalReference: "ord-1"}

	require.NoError(t, f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), ""))
	require.NoError(t, f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), ""),
		"re-delivered notification must succeed")

	got, _ := f.orders.FindByID(context.Background(), "ord-1")
	assert.Equal(t, entity.PaymentStatusApproved, got.PaymentStatus())
}

func TestWebhookMissingExternalReference(t *testing.T) {
	f := newWebhookFixture(t)
	f.provider.payments["pay-1"] = &PaymentDetail{ID: "pay-1", Status: "approved"}

	err := f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), "")
	assert.ErrorIs(t, err, ErrMissingExternalReference)
}

func TestWebhookUnknownOrder(t *testing.T) {
	f := newWebhookFixture(t)
	f.provider.payments["pay-1"] = &PaymentDetail{ID: "pay-1", Status: "approved", ExternalReference: "ghost"}

	err := f.svc.Process(context.Background(), nil, paymentPayload("pay-1"), "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestWebhookMerchantOrder(t *testing.T) {
	merchantPayload := func(id string) WebhookPayload {
		p := WebhookPayload{ID: 202, Type: "merchant_order"}
		p.Data.ID = id
		return p
	}

	t.Run("fully paid approves", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
		f.provider.merchantOrders["mo-1"] = &MerchantOrderDetail{
			ID: "mo-1", Status: "closed", ExternalReference: "ord-1",
			TotalAmount: decimal.RequireFromString("31.98"),
			PaidAmount:  decimal.RequireFromString("31.98"),
		}

		require.NoError(t, f.svc.Process(context.Background(), nil, merchantPayload("mo-1"), ""))
		got, _ := f.orders.FindByID(context.Background(), "ord-1")
		assert.Equal(t, entity.PaymentStatusApproved, got.PaymentStatus())
	})

	t.Run("partial payment leaves order untouched", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
		f.provider.merchantOrders["mo-1"] = &MerchantOrderDetail{
			ID: "mo-1", Status: "closed", ExternalReference: "ord-1",
			TotalAmount: decimal.RequireFromString("31.98"),
			PaidAmount:  decimal.RequireFromString("10.00"),
		}

		require.NoError(t, f.svc.Process(context.Background(), nil, merchantPayload("mo-1"), ""))
		got, _ := f.orders.FindByID(context.Background(), "ord-1")
		assert.Equal(t, entity.PaymentStatusPending, got.PaymentStatus())
	})

	t.Run("open order leaves order untouched", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.seedOrder(t, "ord-1", entity.PaymentStatusPending)
		f.provider.merchantOrders["mo-1"] = &MerchantOrderDetail{
			ID: "mo-1", Status: "opened", ExternalReference: "ord-1",
			TotalAmount: decimal.RequireFromString("31.98"),
			PaidAmount:  decimal.RequireFromString("31.98"),
		}

		require.NoError(t, f.svc.Process(context.Background(), nil, merchantPayload("mo-1"), ""))
		got, _ := f.orders.FindByID(context.Background(), "ord-1")
		assert.Equal(t, entity.PaymentStatusPending, got.PaymentStatus())
	})
}
