package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupCartRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	cartHandler := handler.GetCartHandler()

	cart := api.Group("/cart", authMiddleware.Authenticate)
	cart.GET("", cartHandler.GetCart)
	cart.DELETE("", cartHandler.ClearCart)
	cart.POST("/items", cartHandler.AddItem)
	cart.PATCH("/items/:productId", cartHandler.UpdateItem)
	cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	cart.POST("/checkout", cartHandler.Checkout)
}
