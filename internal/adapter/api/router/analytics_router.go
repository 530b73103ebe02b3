package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupAnalyticsRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	analyticsHandler := handler.GetAnalyticsHandler()

	analytics := api.Group("/analytics", authMiddleware.Authenticate, adminMiddleware.ArtisanOnly)
	analytics.GET("/sales-forecast", analyticsHandler.SalesForecast)
	analytics.GET("/market-trends", analyticsHandler.MarketTrends)
	analytics.GET("/pricing/:productId", analyticsHandler.Pricing)
	analytics.GET("/customer-insights", analyticsHandler.CustomerInsights)
	analytics.GET("/inventory", analyticsHandler.Inventory)
	analytics.GET("/dashboard", analyticsHandler.Dashboard)
}
