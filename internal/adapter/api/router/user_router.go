package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupUserRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()

	users := api.Group("/user")
	users.GET("/:id/public", userHandler.GetPublicProfile)

	protected := users.Group("", authMiddleware.Authenticate)
	protected.GET("/profile", userHandler.GetProfile)
	protected.PATCH("/profile", userHandler.UpdateProfile)
	protected.GET("/balance", userHandler.GetBalance)

	admin := protected.Group("/admin", adminMiddleware.AdminOnly)
	admin.GET("/users", userHandler.AdminListUsers)
	admin.PATCH("/users/:id/role", userHandler.AdminUpdateRole)
}
