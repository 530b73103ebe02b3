package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
	"artisanmart/pkg/money"
	"artisanmart/pkg/response"
)

type AuctionHandler struct {
	auctionUseCase *usecase.AuctionUseCase
}

func NewAuctionHandler(auctionUseCase *usecase.AuctionUseCase) *AuctionHandler {
	return &AuctionHandler{
		auctionUseCase: auctionUseCase,
	}
}

type createAuctionRequest struct {
	Title           string       `json:"title" validate:"required,max=150"`
	Description     string       `json:"description" validate:"max=5000"`
	Images          []string     `json:"images" validate:"max=10,dive,url"`
	StartingPrice   money.Amount `json:"startingPrice" validate:"required,gt=0"`
	StartTime       time.Time    `json:"startTime"`
	DurationMinutes int          `json:"durationMinutes" validate:"required,gt=0,max=10080"`
}

type placeBidRequest struct {
	Amount money.Amount `json:"amount" validate:"required,gt=0"`
}

func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	auctions, err := h.auctionUseCase.ListAuctions(c.Request().Context(), c.QueryParam("status"), c.QueryParam("sellerId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, auctions)
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctionUseCase.GetAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, auction)
}

func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req createAuctionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	auction, err := h.auctionUseCase.CreateAuction(c.Request().Context(), currentUID(c), usecase.CreateAuctionInput{
		Title:           req.Title,
		Description:     req.Description,
		Images:          req.Images,
		StartingPrice:   req.StartingPrice,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, auction)
}

func (h *AuctionHandler) DeleteAuction(c echo.Context) error {
	if err := h.auctionUseCase.DeleteAuction(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Auction deleted"})
}

// PlaceBid is the HTTP fallback for clients without a socket.
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	auction, err := h.auctionUseCase.PlaceBid(c.Request().Context(), c.Param("id"), currentUID(c), "", req.Amount)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, auction)
}

func (h *AuctionHandler) ListBids(c echo.Context) error {
	bids, err := h.auctionUseCase.ListBids(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, bids)
}
