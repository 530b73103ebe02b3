package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
)

type SubscriptionHandler struct {
	subscriptionUseCase *usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(subscriptionUseCase *usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
	}
}

type subscribeRequest struct {
	Plan          string `json:"plan" validate:"required,oneof=monthly yearly"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,min=10,max=15"`
}

func (h *SubscriptionHandler) Plans(c echo.Context) error {
	return response.Success(c, h.subscriptionUseCase.Plans())
}

func (h *SubscriptionHandler) Status(c echo.Context) error {
	status, err := h.subscriptionUseCase.Status(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, status)
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.subscriptionUseCase.Subscribe(c.Request().Context(), currentUID(c), usecase.SubscribeInput{
		Plan:          req.Plan,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}
