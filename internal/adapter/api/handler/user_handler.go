package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/response"
	"artisanmart/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user artisan admin"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), currentUID(c), usecase.UpdateProfileInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetBalance(c echo.Context) error {
	balance, err := h.userUseCase.GetBalance(c.Request().Context(), currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"balance": balance})
}

func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) AdminListUsers(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(c.Request().Context(), c.QueryParam("role"), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, p.Page, p.PageSize)
}

func (h *UserHandler) AdminUpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateRole(c.Request().Context(), currentUID(c), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
