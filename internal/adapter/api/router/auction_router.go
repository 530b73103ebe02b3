package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupAuctionRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	auctionHandler := handler.GetAuctionHandler()

	auctions := api.Group("/auctions")
	auctions.GET("", auctionHandler.ListAuctions)
	auctions.GET("/:id", auctionHandler.GetAuction)
	auctions.GET("/:id/bids", auctionHandler.ListBids)
	auctions.POST("/:id/bids", auctionHandler.PlaceBid, authMiddleware.Authenticate)

	artisan := auctions.Group("", authMiddleware.Authenticate, adminMiddleware.ArtisanOnly)
	artisan.POST("", auctionHandler.CreateAuction)
	artisan.DELETE("/:id", auctionHandler.DeleteAuction)
}
