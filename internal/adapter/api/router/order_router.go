package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupOrderRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := api.Group("/orders", authMiddleware.Authenticate)
	orders.GET("/my", orderHandler.ListMyOrders)
	orders.GET("/sales", orderHandler.ListSales)
	orders.GET("/admin", orderHandler.AdminListOrders, adminMiddleware.AdminOnly)
	orders.GET("/:orderId", orderHandler.GetOrder)
}
