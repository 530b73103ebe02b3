package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/pkg/response"
)

// DevToken mints a bearer token for any existing user. Only routed outside production.
func (h *AuthHandler) DevToken(c echo.Context) error {
	result, err := h.authUseCase.DevToken(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
