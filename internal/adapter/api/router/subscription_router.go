package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupSubscriptionRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	subscriptionHandler := handler.GetSubscriptionHandler()

	subscription := api.Group("/subscription")
	subscription.GET("/plans", subscriptionHandler.Plans)
	subscription.GET("/status", subscriptionHandler.Status, authMiddleware.Authenticate)
	subscription.POST("/subscribe", subscriptionHandler.Subscribe, authMiddleware.Authenticate)
}
