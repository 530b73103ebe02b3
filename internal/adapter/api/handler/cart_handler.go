package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
)

type CartHandler struct {
	cartUseCase *usecase.CartUseCase
}

func NewCartHandler(cartUseCase *usecase.CartUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase: cartUseCase,
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,max=100"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,max=100"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerPhone string `json:"customerPhone" validate:"required,min=10,max=15"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.cartUseCase.GetCart(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	cart, err := h.cartUseCase.AddItem(c.Request().Context(), currentUID(c), req.ProductID, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	cart, err := h.cartUseCase.UpdateItem(c.Request().Context(), currentUID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	cart, err := h.cartUseCase.RemoveItem(c.Request().Context(), currentUID(c), c.Param("productId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cart)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.cartUseCase.ClearCart(c.Request().Context(), currentUID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Cart cleared"})
}

func (h *CartHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	orders, err := h.cartUseCase.Checkout(c.Request().Context(), currentUID(c), usecase.CheckoutInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]interface{}{"orders": orders})
}
