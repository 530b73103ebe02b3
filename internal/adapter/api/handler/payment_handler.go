package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
	"artisanmart/pkg/response"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type productSnapshotRequest struct {
	ProductID string       `json:"productId" validate:"required"`
	Title     string       `json:"title"`
	Price     money.Amount `json:"price" validate:"gte=0"`
	Quantity  int          `json:"quantity" validate:"gte=0"`
	Image     string       `json:"image"`
	Kind      string       `json:"kind" validate:"omitempty,oneof=shopcard resale"`
}

type createOrderRequest struct {
	CustomerName     string                   `json:"customerName" validate:"required"`
	CustomerEmail    string                   `json:"customerEmail" validate:"required,email"`
	CustomerPhone    string                   `json:"customerPhone" validate:"required,min=10,max=15"`
	Amount           money.Amount             `json:"amount" validate:"required,gt=0"`
	SellerID         string                   `json:"sellerId"`
	ProductDetails   []productSnapshotRequest `json:"productDetails" validate:"dive"`
	IsSubscription   bool                     `json:"isSubscription"`
	SubscriptionType string                   `json:"subscriptionType" validate:"required_if=IsSubscription true,omitempty,oneof=monthly yearly"`
}

type verifyPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	snapshots := make([]entity.ProductSnapshot, len(req.ProductDetails))
	for i, p := range req.ProductDetails {
		snapshots[i] = entity.ProductSnapshot{
			ProductID: p.ProductID,
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  p.Quantity,
			Image:     p.Image,
			Kind:      p.Kind,
		}
	}

	result, err := h.paymentUseCase.CreateOrder(c.Request().Context(), currentUID(c), usecase.CreateOrderInput{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Amount:           req.Amount,
		SellerID:         req.SellerID,
		ProductDetails:   snapshots,
		IsSubscription:   req.IsSubscription,
		SubscriptionType: req.SubscriptionType,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req verifyPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.paymentUseCase.VerifyPayment(c.Request().Context(), currentUID(c), req.OrderID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

// Webhook needs the raw body for the signature, so it skips Bind.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read body", err))
	}

	timestamp := c.Request().Header.Get("x-webhook-timestamp")
	signature := c.Request().Header.Get("x-webhook-signature")

	result, err := h.paymentUseCase.HandleWebhook(c.Request().Context(), timestamp, signature, body)
	if err != nil {
		logger.Warn("Payment webhook rejected: %v", err)
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"orderId":   result.Order.OrderID,
		"status":    result.Order.Status,
		"processed": result.Processed,
	})
}

func (h *PaymentHandler) QRCode(c echo.Context) error {
	png, err := h.paymentUseCase.PaymentQRCode(c.Request().Context(), currentUID(c), c.Param("orderId"))
	if err != nil {
		return response.Error(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *PaymentHandler) CancelOrder(c echo.Context) error {
	order, err := h.paymentUseCase.CancelOrder(c.Request().Context(), currentUID(c), c.Param("orderId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}
