package router

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
)

func SetupStoryRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	storyHandler := handler.GetStoryHandler()

	stories := api.Group("/stories")
	stories.GET("", storyHandler.ListStories)
	stories.GET("/:id", storyHandler.GetStory)

	protected := stories.Group("", authMiddleware.Authenticate)
	protected.POST("", storyHandler.CreateStory)
	protected.PUT("/:id", storyHandler.UpdateStory)
	protected.DELETE("/:id", storyHandler.DeleteStory)
	protected.POST("/:id/like", storyHandler.ToggleLike)
}
