package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/domain/repository"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
	"artisanmart/pkg/response"
	"artisanmart/pkg/utils"
)

type ResaleHandler struct {
	resaleUseCase *usecase.ResaleUseCase
}

func NewResaleHandler(resaleUseCase *usecase.ResaleUseCase) *ResaleHandler {
	return &ResaleHandler{
		resaleUseCase: resaleUseCase,
	}
}

type resaleRequest struct {
	Title         string       `json:"title" validate:"required,max=150"`
	Description   string       `json:"description" validate:"max=5000"`
	Category      string       `json:"category" validate:"required"`
	Images        []string     `json:"images" validate:"max=10,dive,url"`
	OriginalPrice money.Amount `json:"originalPrice" validate:"required,gt=0"`
	Condition     string       `json:"condition" validate:"required,oneof=new like_new good fair poor"`
}

func (r resaleRequest) input() usecase.ResaleInput {
	return usecase.ResaleInput{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Images:        r.Images,
		OriginalPrice: r.OriginalPrice,
		Condition:     r.Condition,
	}
}

func (h *ResaleHandler) Quote(c echo.Context) error {
	price, err := money.Parse(c.QueryParam("originalPrice"))
	if err != nil {
		return response.Error(c, errors.BadRequest("originalPrice must be a number", err))
	}

	quote, err := h.resaleUseCase.Quote(price, c.QueryParam("condition"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, quote)
}

func (h *ResaleHandler) ListResales(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	items, total, err := h.resaleUseCase.ListResales(c.Request().Context(), repository.ResaleFilter{
		SellerID: c.QueryParam("sellerId"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Limit:    p.PageSize,
		Offset:   p.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, p.Page, p.PageSize)
}

func (h *ResaleHandler) GetResale(c echo.Context) error {
	item, err := h.resaleUseCase.GetResale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}

func (h *ResaleHandler) CreateResale(c echo.Context) error {
	var req resaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.resaleUseCase.CreateResale(c.Request().Context(), currentUID(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, item)
}

func (h *ResaleHandler) UpdateResale(c echo.Context) error {
	var req resaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.resaleUseCase.UpdateResale(c.Request().Context(), currentUID(c), c.Param("id"), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}

func (h *ResaleHandler) DeleteResale(c echo.Context) error {
	if err := h.resaleUseCase.DeleteResale(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *ResaleHandler) MarkSold(c echo.Context) error {
	item, err := h.resaleUseCase.MarkSold(c.Request().Context(), currentUID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}
