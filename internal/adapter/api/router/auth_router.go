package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
	"artisanmart/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.Limiter) {
	authHandler := handler.GetAuthHandler()

	auth := api.Group("/auth")
	if limiter != nil {
		auth.Use(middleware.RateLimit(limiter, middleware.ByIP))
	}

	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/google", authHandler.Google)

	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
