package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, wsHandler *handler.WebSocketHandler) {
	if wsHandler == nil {
		return
	}
	e.GET("/ws/auctions", wsHandler.HandleAuctionSocket, authMiddleware.AuthenticateSocket)
}
