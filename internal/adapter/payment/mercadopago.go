package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/usecase"
)

// MercadoPagoClient talks to the live provider REST API. Timeouts
// live on the embedded http.Client; failures surface to the
// reconciler as ordinary errors.
type MercadoPagoClient struct {
	http          *http.Client
	baseURL       string
	accessToken   string
	webhookSecret string
	posID         string
}

func NewMercadoPagoClient(baseURL, accessToken, webhookSecret, posID string, timeout time.Duration) *MercadoPagoClient {
	return &MercadoPagoClient{
		http:          &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(baseURL, "/"),
		accessToken:   accessToken,
		webhookSecret: webhookSecret,
		posID:         posID,
	}
}

var _ usecase.PaymentProvider = (*MercadoPagoClient)(nil)

type mpPayment struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	ExternalReference string          `json:"external_reference"`
}

type mpMerchantOrder struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"external_reference"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
}

type mpQRCode struct {
	QRData       string `json:"qr_data"`
	QRCodeBase64 string `json:"qr_code_base64"`
	InStoreOrder string `json:"in_store_order_id"`
}

func (c *MercadoPagoClient) PaymentByID(ctx context.Context, id string) (*usecase.PaymentDetail, error) {
	var out mpPayment
	if err := c.get(ctx, "/v1/payments/"+id, &out); err != nil {
		return nil, err
	}
	return &usecase.PaymentDetail{
		ID:                out.ID.String(),
		Status:            out.Status,
		StatusDetail:      out.StatusDetail,
		TransactionAmount: out.TransactionAmount,
		ExternalReference: out.ExternalReference,
	}, nil
}

func (c *MercadoPagoClient) MerchantOrderByID(ctx context.Context, id string) (*usecase.MerchantOrderDetail, error) {
	var out mpMerchantOrder
	if err := c.get(ctx, "/merchant_orders/"+id, &out); err != nil {
		return nil, err
	}
	return &usecase.MerchantOrderDetail{
		ID:                out.ID.String(),
		Status:            out.Status,
		ExternalReference: out.ExternalReference,
		TotalAmount:       out.TotalAmount,
		PaidAmount:        out.PaidAmount,
	}, nil
}

func (c *MercadoPagoClient) CreateQRCode(ctx context.Context, req usecase.QRCodeRequest) (*usecase.QRCode, error) {
	body, err := json.Marshal(map[string]any{
		"external_reference": req.OrderID,
		"title":              req.Title,
		"description":        req.Description,
		"total_amount":       req.TotalAmount,
		"notification_url":   req.NotificationURL,
	})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/instore/orders/qr/seller/collectors/%s/pos/%s/qrs", c.collectorID(), c.posID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	var out mpQRCode
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &usecase.QRCode{
		PaymentID:         out.InStoreOrder,
		QRData:            out.QRData,
		QRCodeBase64:      out.QRCodeBase64,
		ExternalReference: req.OrderID,
		NotificationURL:   req.NotificationURL,
	}, nil
}

// ValidateSignature checks the HMAC-SHA256 of the raw payload against
// the hex signature header.
func (c *MercadoPagoClient) ValidateSignature(payload []byte, signature string) bool {
	if c.webhookSecret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	signature = strings.TrimPrefix(signature, "sha256=")
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (c *MercadoPagoClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return c.do(req, out)
}

func (c *MercadoPagoClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			usecase.ErrProviderUnavailable, req.Method, req.URL.Path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// collectorID is embedded in the access token (APP_USR-<id>-...).
func (c *MercadoPagoClient) collectorID() string {
	parts := strings.Split(c.accessToken, "-")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}
