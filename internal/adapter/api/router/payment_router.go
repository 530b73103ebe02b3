package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupPaymentRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	payment := api.Group("/payment")
	payment.POST("/webhook", paymentHandler.Webhook)

	protected := payment.Group("", authMiddleware.Authenticate)
	protected.POST("/create-order", paymentHandler.CreateOrder)
	protected.POST("/verify", paymentHandler.VerifyPayment)
	protected.GET("/:orderId/qr", paymentHandler.QRCode)
	protected.POST("/:orderId/cancel", paymentHandler.CancelOrder)
}
