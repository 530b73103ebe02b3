package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupUploadRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	uploadHandler := handler.GetUploadHandler()

	uploads := api.Group("/cloudinary", authMiddleware.Authenticate)
	uploads.POST("/signature", uploadHandler.SignUpload)
	uploads.DELETE("", uploadHandler.DeleteUpload)
}
