package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupResaleRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	resaleHandler := handler.GetResaleHandler()

	resale := api.Group("/resale")
	resale.GET("", resaleHandler.ListResales)
	resale.GET("/quote", resaleHandler.Quote)
	resale.GET("/:id", resaleHandler.GetResale)

	protected := resale.Group("", authMiddleware.Authenticate)
	protected.POST("", resaleHandler.CreateResale)
	protected.PUT("/:id", resaleHandler.UpdateResale)
	protected.DELETE("/:id", resaleHandler.DeleteResale)
	protected.POST("/:id/sold", resaleHandler.MarkSold)
}
