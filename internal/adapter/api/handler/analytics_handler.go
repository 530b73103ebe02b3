package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
)

type AnalyticsHandler struct {
	analyticsUseCase *usecase.AnalyticsUseCase
}

func NewAnalyticsHandler(analyticsUseCase *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUseCase: analyticsUseCase,
	}
}

func (h *AnalyticsHandler) SalesForecast(c echo.Context) error {
	report, err := h.analyticsUseCase.SalesForecast(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *AnalyticsHandler) MarketTrends(c echo.Context) error {
	report, err := h.analyticsUseCase.MarketTrends(c.Request().Context(), currentUID(c), c.QueryParam("category"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *AnalyticsHandler) Pricing(c echo.Context) error {
	report, err := h.analyticsUseCase.Pricing(c.Request().Context(), currentUID(c), c.Param("productId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *AnalyticsHandler) CustomerInsights(c echo.Context) error {
	report, err := h.analyticsUseCase.CustomerInsights(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *AnalyticsHandler) Inventory(c echo.Context) error {
	report, err := h.analyticsUseCase.Inventory(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	report, err := h.analyticsUseCase.Dashboard(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}
