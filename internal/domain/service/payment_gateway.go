package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"artisanmart/pkg/money"
)

// Gateway order statuses as reported by the payment provider.
const (
	GatewayStatusActive     = "ACTIVE"
	GatewayStatusPaid       = "PAID"
	GatewayStatusExpired    = "EXPIRED"
	GatewayStatusTerminated = "TERMINATED"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type CustomerDetails struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type PaymentGatewayRequest struct {
	OrderID   string
	Amount    money.Amount
	Currency  string
	Customer  CustomerDetails
	ReturnURL string
	Note      string
}

type PaymentGatewayResponse struct {
	OrderID          string
	GatewayOrderID   string
	PaymentSessionID string
	PaymentLink      string
	Status           string
	Amount           money.Amount
	PaymentMethod    string
}

type PaymentGatewayService interface {
	CreateOrder(ctx context.Context, req PaymentGatewayRequest) (*PaymentGatewayResponse, error)
	GetOrder(ctx context.Context, orderID string) (*PaymentGatewayResponse, error)
	VerifyWebhookSignature(timestamp string, body []byte, signature string) error
}

// SignWebhook computes base64(HMAC-SHA256(timestamp + body)) with the merchant secret.
func SignWebhook(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func VerifyWebhook(secret, timestamp string, body []byte, signature string) error {
	if secret == "" || signature == "" || timestamp == "" {
		return ErrInvalidSignature
	}
	expected := SignWebhook(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
