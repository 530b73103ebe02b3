package service

import (
	"context"
	"fmt"
	"sync"

	"artisanmart/pkg/logger"
)

// SimplifiedPaymentService is an in-process gateway for development and tests.
// Orders stay ACTIVE until SetStatus moves them.
type SimplifiedPaymentService struct {
	secretKey string

	mu     sync.Mutex
	orders map[string]*PaymentGatewayResponse
}

func NewSimplifiedPaymentService(secretKey string) *SimplifiedPaymentService {
	return &SimplifiedPaymentService{
		secretKey: secretKey,
		orders:    make(map[string]*PaymentGatewayResponse),
	}
}

func (s *SimplifiedPaymentService) CreateOrder(ctx context.Context, req PaymentGatewayRequest) (*PaymentGatewayResponse, error) {
	logger.Info("Creating simplified payment for order: %s, amount: %s", req.OrderID, req.Amount)

	resp := &PaymentGatewayResponse{
		OrderID:          req.OrderID,
		GatewayOrderID:   "sim_" + req.OrderID,
		PaymentSessionID: "session_sim_" + req.OrderID,
		PaymentLink:      fmt.Sprintf("https://payments.sandbox.local/pay/%s", req.OrderID),
		Status:           GatewayStatusActive,
		Amount:           req.Amount,
	}

	s.mu.Lock()
	s.orders[req.OrderID] = resp
	s.mu.Unlock()

	copied := *resp
	return &copied, nil
}

func (s *SimplifiedPaymentService) GetOrder(ctx context.Context, orderID string) (*PaymentGatewayResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found at gateway", orderID)
	}
	copied := *resp
	return &copied, nil
}

func (s *SimplifiedPaymentService) VerifyWebhookSignature(timestamp string, body []byte, signature string) error {
	return VerifyWebhook(s.secretKey, timestamp, body, signature)
}

// SetStatus simulates the customer completing (or abandoning) payment.
func (s *SimplifiedPaymentService) SetStatus(orderID, status, method string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resp, ok := s.orders[orderID]; ok {
		resp.Status = status
		resp.PaymentMethod = method
	}
}
