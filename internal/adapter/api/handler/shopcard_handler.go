package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
	"artisanmart/pkg/response"
	"artisanmart/pkg/utils"
)

type ShopCardHandler struct {
	shopCardUseCase *usecase.ShopCardUseCase
}

func NewShopCardHandler(shopCardUseCase *usecase.ShopCardUseCase) *ShopCardHandler {
	return &ShopCardHandler{
		shopCardUseCase: shopCardUseCase,
	}
}

type createShopCardRequest struct {
	Title       string       `json:"title" validate:"required,max=150"`
	Description string       `json:"description" validate:"max=5000"`
	Price       money.Amount `json:"price" validate:"required,gt=0"`
	Category    string       `json:"category" validate:"required"`
	Images      []string     `json:"images" validate:"max=10,dive,url"`
	Stock       int          `json:"stock" validate:"gte=0"`
	Status      string       `json:"status" validate:"omitempty,oneof=active draft"`
}

type updateShopCardRequest struct {
	Title       string       `json:"title" validate:"omitempty,max=150"`
	Description string       `json:"description" validate:"max=5000"`
	Price       money.Amount `json:"price" validate:"gte=0"`
	Category    string       `json:"category"`
	Images      []string     `json:"images" validate:"omitempty,max=10,dive,url"`
	Stock       int          `json:"stock" validate:"gte=0"`
	Status      string       `json:"status" validate:"omitempty,oneof=active draft sold_out"`
}

func parsePriceQuery(c echo.Context, name string) (*money.Amount, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return nil, errors.BadRequest(name+" must be a number", err)
	}
	return &amount, nil
}

func (h *ShopCardHandler) ListShopCards(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	minPrice, err := parsePriceQuery(c, "minPrice")
	if err != nil {
		return response.Error(c, err)
	}
	maxPrice, err := parsePriceQuery(c, "maxPrice")
	if err != nil {
		return response.Error(c, err)
	}

	cards, total, err := h.shopCardUseCase.ListShopCards(c.Request().Context(), entity.ShopCardFilter{
		Category: c.QueryParam("category"),
		SellerID: c.QueryParam("sellerId"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Query:    c.QueryParam("q"),
		Sort:     c.QueryParam("sort"),
		Limit:    p.PageSize,
		Offset:   p.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, cards, total, p.Page, p.PageSize)
}

func (h *ShopCardHandler) GetShopCard(c echo.Context) error {
	card, err := h.shopCardUseCase.GetShopCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, card)
}

func (h *ShopCardHandler) ListMine(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	cards, total, err := h.shopCardUseCase.ListMine(c.Request().Context(), currentUID(c), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, cards, total, p.Page, p.PageSize)
}

func (h *ShopCardHandler) CreateShopCard(c echo.Context) error {
	var req createShopCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	card, err := h.shopCardUseCase.CreateShopCard(c.Request().Context(), currentUID(c), usecase.ShopCardInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, card)
}

func (h *ShopCardHandler) UpdateShopCard(c echo.Context) error {
	var req updateShopCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	card, err := h.shopCardUseCase.UpdateShopCard(c.Request().Context(), currentUID(c), c.Param("id"), usecase.ShopCardInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, card)
}

func (h *ShopCardHandler) DeleteShopCard(c echo.Context) error {
	if err := h.shopCardUseCase.DeleteShopCard(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Product deleted"})
}
