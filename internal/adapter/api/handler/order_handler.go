package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
	"artisanmart/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	orders, total, err := h.orderUseCase.ListMyOrders(c.Request().Context(), currentUID(c), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, p.Page, p.PageSize)
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	orders, total, err := h.orderUseCase.ListSales(c.Request().Context(), currentUID(c), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, p.Page, p.PageSize)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderUseCase.GetOrder(c.Request().Context(), currentUID(c), c.Param("orderId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	orders, total, err := h.orderUseCase.AdminListOrders(c.Request().Context(), c.QueryParam("status"), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, p.Page, p.PageSize)
}
