package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"artisanmart/internal/domain/service"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

const (
	sandboxURL    = "https://sandbox.cashfree.com/pg"
	productionURL = "https://api.cashfree.com/pg"
	apiVersion    = "2022-09-01"
)

// PaymentService talks to the Cashfree PG orders API.
type PaymentService struct {
	appID      string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewPaymentService(appID, secretKey string, isProduction bool) *PaymentService {
	baseURL := sandboxURL
	if isProduction {
		baseURL = productionURL
	}

	return &PaymentService{
		appID:      appID,
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at another host, e.g. a local test server.
func (s *PaymentService) WithBaseURL(baseURL string) *PaymentService {
	s.baseURL = baseURL
	return s
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
}

type createOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails customerDetails `json:"customer_details"`
	OrderMeta       orderMeta       `json:"order_meta"`
	OrderNote       string          `json:"order_note,omitempty"`
}

type orderResponse struct {
	CFOrderID        json.Number     `json:"cf_order_id"`
	OrderID          string          `json:"order_id"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	OrderStatus      string          `json:"order_status"`
	PaymentSessionID string          `json:"payment_session_id"`
	PaymentLink      string          `json:"payment_link"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

func (s *PaymentService) CreateOrder(ctx context.Context, req service.PaymentGatewayRequest) (*service.PaymentGatewayResponse, error) {
	log := logger.With("gateway", "cashfree", "order_id", req.OrderID)
	log.Info("Creating payment order", "amount", req.Amount.String())

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	body := createOrderRequest{
		OrderID:       req.OrderID,
		OrderAmount:   req.Amount.Float64(),
		OrderCurrency: currency,
		CustomerDetails: customerDetails{
			CustomerID:    req.Customer.ID,
			CustomerName:  req.Customer.Name,
			CustomerEmail: req.Customer.Email,
			CustomerPhone: req.Customer.Phone,
		},
		OrderNote: req.Note,
	}
	if req.ReturnURL != "" {
		body.OrderMeta.ReturnURL = req.ReturnURL
	}

	var out orderResponse
	if err := s.call(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		log.Error("Create order failed", "error", err)
		return nil, err
	}

	return toGatewayResponse(out), nil
}

func (s *PaymentService) GetOrder(ctx context.Context, orderID string) (*service.PaymentGatewayResponse, error) {
	var out orderResponse
	if err := s.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}

	logger.With("gateway", "cashfree", "order_id", orderID).Info("Fetched payment order", "status", out.OrderStatus)
	return toGatewayResponse(out), nil
}

func (s *PaymentService) VerifyWebhookSignature(timestamp string, body []byte, signature string) error {
	return service.VerifyWebhook(s.secretKey, timestamp, body, signature)
}

func (s *PaymentService) call(ctx context.Context, method, path string, in interface{}, out interface{}) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-version", apiVersion)
	httpReq.Header.Set("x-client-id", s.appID)
	httpReq.Header.Set("x-client-secret", s.secretKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("cashfree API error (%d %s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("cashfree API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func toGatewayResponse(out orderResponse) *service.PaymentGatewayResponse {
	return &service.PaymentGatewayResponse{
		OrderID:          out.OrderID,
		GatewayOrderID:   out.CFOrderID.String(),
		PaymentSessionID: out.PaymentSessionID,
		PaymentLink:      out.PaymentLink,
		Status:           out.OrderStatus,
		Amount:           money.FromDecimal(out.OrderAmount),
	}
}
