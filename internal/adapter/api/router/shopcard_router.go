package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupShopCardRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	shopCardHandler := handler.GetShopCardHandler()

	cards := api.Group("/shopcards")
	cards.GET("", shopCardHandler.ListShopCards)
	cards.GET("/mine", shopCardHandler.ListMine, authMiddleware.Authenticate)
	cards.GET("/:id", shopCardHandler.GetShopCard)

	artisan := cards.Group("", authMiddleware.Authenticate, adminMiddleware.ArtisanOnly)
	artisan.POST("", shopCardHandler.CreateShopCard)
	artisan.PUT("/:id", shopCardHandler.UpdateShopCard)
	artisan.DELETE("/:id", shopCardHandler.DeleteShopCard)
}
