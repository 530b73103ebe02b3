package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
)

// SetupDevRouter exposes token minting outside production only.
func SetupDevRouter(e *echo.Echo, environment string) {
	if environment == "production" {
		return
	}
	authHandler := handler.GetAuthHandler()

	e.GET("/_dev/token/:uid", authHandler.DevToken)
}
