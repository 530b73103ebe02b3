package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
)

type UploadHandler struct {
	uploadUseCase *usecase.UploadUseCase
}

func NewUploadHandler(uploadUseCase *usecase.UploadUseCase) *UploadHandler {
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
	}
}

type signUploadRequest struct {
	ContentType string `json:"contentType" validate:"required"`
	Folder      string `json:"folder" validate:"max=64"`
}

type deleteUploadRequest struct {
	URL string `json:"url" validate:"required"`
}

func (h *UploadHandler) SignUpload(c echo.Context) error {
	var req signUploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.uploadUseCase.SignUpload(c.Request().Context(), currentUID(c), req.ContentType, req.Folder)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ticket)
}

func (h *UploadHandler) DeleteUpload(c echo.Context) error {
	var req deleteUploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.uploadUseCase.DeleteUpload(c.Request().Context(), currentUID(c), req.URL); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "File deleted"})
}
