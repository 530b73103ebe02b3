package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

type ShopCardUseCase struct {
	shopCardRepo repository.ShopCardRepository
	userRepo     repository.UserRepository
	now          func() time.Time
}

func NewShopCardUseCase(shopCardRepo repository.ShopCardRepository, userRepo repository.UserRepository) *ShopCardUseCase {
	return &ShopCardUseCase{
		shopCardRepo: shopCardRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

type ShopCardInput struct {
	Title       string
	Description string
	Price       money.Amount
	Category    string
	Images      []string
	Stock       int
	Status      string
}

func validShopCardStatus(status string) bool {
	return status == entity.ShopCardStatusActive || status == entity.ShopCardStatusDraft || status == entity.ShopCardStatusSoldOut
}

func (uc *ShopCardUseCase) CreateShopCard(ctx context.Context, sellerID string, input ShopCardInput) (*entity.ShopCard, error) {
	seller, err := requireArtisan(ctx, uc.userRepo, sellerID)
	if err != nil {
		return nil, err
	}

	if !input.Price.IsPositive() {
		return nil, errors.BadRequest("price must be greater than 0", nil)
	}
	if input.Stock < 0 {
		return nil, errors.BadRequest("stock cannot be negative", nil)
	}

	status := input.Status
	if status == "" {
		status = entity.ShopCardStatusActive
	}
	if !validShopCardStatus(status) {
		return nil, errors.BadRequest("Invalid status", nil)
	}
	if status == entity.ShopCardStatusActive && input.Stock == 0 {
		status = entity.ShopCardStatusSoldOut
	}

	now := uc.now()
	card := &entity.ShopCard{
		ID:          uuid.New().String(),
		SellerID:    seller.ID,
		SellerName:  displayName(seller),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      input.Images,
		Stock:       input.Stock,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if card.Images == nil {
		card.Images = []string{}
	}

	if err := uc.shopCardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetShopCard hides soft-deleted listings and bumps the view counter in the background.
func (uc *ShopCardUseCase) GetShopCard(ctx context.Context, id string) (*entity.ShopCard, error) {
	card, err := uc.shopCardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", err)
		}
		return nil, err
	}
	if card.DeletedAt != nil || card.Status == entity.ShopCardStatusDeleted {
		return nil, errors.NotFound("Product", nil)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.shopCardRepo.IncrementViews(ctx, id); err != nil {
			logger.Debug("Failed to increment views for %s: %v", id, err)
		}
	}()

	return card, nil
}

func (uc *ShopCardUseCase) ListShopCards(ctx context.Context, filter entity.ShopCardFilter) ([]*entity.ShopCard, int64, error) {
	if filter.Status == "" {
		filter.Status = entity.ShopCardStatusActive
	}
	return uc.shopCardRepo.List(ctx, filter)
}

// ListMine returns every non-deleted listing of the seller, drafts included.
func (uc *ShopCardUseCase) ListMine(ctx context.Context, sellerID string, limit, offset int) ([]*entity.ShopCard, int64, error) {
	return uc.shopCardRepo.List(ctx, entity.ShopCardFilter{
		SellerID: sellerID,
		Limit:    limit,
		Offset:   offset,
	})
}

func (uc *ShopCardUseCase) ownedShopCard(ctx context.Context, sellerID, id string) (*entity.ShopCard, error) {
	card, err := uc.shopCardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", err)
		}
		return nil, err
	}
	if card.DeletedAt != nil {
		return nil, errors.NotFound("Product", nil)
	}
	if card.SellerID != sellerID && !isAdmin(ctx, uc.userRepo, sellerID) {
		return nil, errors.Forbidden("You don't have permission to modify this product", nil)
	}
	return card, nil
}

func (uc *ShopCardUseCase) UpdateShopCard(ctx context.Context, sellerID, id string, input ShopCardInput) (*entity.ShopCard, error) {
	card, err := uc.ownedShopCard(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		card.Title = input.Title
	}
	if input.Description != "" {
		card.Description = input.Description
	}
	if input.Price != 0 {
		if !input.Price.IsPositive() {
			return nil, errors.BadRequest("price must be greater than 0", nil)
		}
		card.Price = input.Price
	}
	if input.Category != "" {
		card.Category = input.Category
	}
	if input.Images != nil {
		card.Images = input.Images
	}
	if input.Stock < 0 {
		return nil, errors.BadRequest("stock cannot be negative", nil)
	}
	if input.Stock > 0 {
		card.Stock = input.Stock
		if card.Status == entity.ShopCardStatusSoldOut {
			card.Status = entity.ShopCardStatusActive
		}
	}
	if input.Status != "" {
		if !validShopCardStatus(input.Status) {
			return nil, errors.BadRequest("Invalid status", nil)
		}
		card.Status = input.Status
	}
	card.UpdatedAt = uc.now()

	if err := uc.shopCardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (uc *ShopCardUseCase) DeleteShopCard(ctx context.Context, sellerID, id string) error {
	if _, err := uc.ownedShopCard(ctx, sellerID, id); err != nil {
		return err
	}
	return uc.shopCardRepo.SoftDelete(ctx, id)
}
