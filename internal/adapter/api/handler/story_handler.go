package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
	"artisanmart/pkg/utils"
)

type StoryHandler struct {
	storyUseCase *usecase.StoryUseCase
}

func NewStoryHandler(storyUseCase *usecase.StoryUseCase) *StoryHandler {
	return &StoryHandler{
		storyUseCase: storyUseCase,
	}
}

type storyRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required"`
	CoverImage string   `json:"coverImage" validate:"omitempty,url"`
	Tags       []string `json:"tags" validate:"max=10"`
}

func (r storyRequest) input() usecase.StoryInput {
	return usecase.StoryInput{
		Title:      r.Title,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Tags:       r.Tags,
	}
}

func (h *StoryHandler) ListStories(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	stories, total, err := h.storyUseCase.ListStories(c.Request().Context(), c.QueryParam("authorId"), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, stories, total, p.Page, p.PageSize)
}

func (h *StoryHandler) GetStory(c echo.Context) error {
	story, err := h.storyUseCase.GetStory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, story)
}

func (h *StoryHandler) CreateStory(c echo.Context) error {
	var req storyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	story, err := h.storyUseCase.CreateStory(c.Request().Context(), currentUID(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, story)
}

func (h *StoryHandler) UpdateStory(c echo.Context) error {
	var req storyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	story, err := h.storyUseCase.UpdateStory(c.Request().Context(), currentUID(c), c.Param("id"), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, story)
}

func (h *StoryHandler) DeleteStory(c echo.Context) error {
	if err := h.storyUseCase.DeleteStory(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Story deleted"})
}

func (h *StoryHandler) ToggleLike(c echo.Context) error {
	result, err := h.storyUseCase.ToggleLike(c.Request().Context(), currentUID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
