package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

type ResaleUseCase struct {
	resaleRepo repository.ResaleRepository
	userRepo   repository.UserRepository
	now        func() time.Time
}

func NewResaleUseCase(resaleRepo repository.ResaleRepository, userRepo repository.UserRepository) *ResaleUseCase {
	return &ResaleUseCase{
		resaleRepo: resaleRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

type ResaleInput struct {
	Title         string
	Description   string
	Category      string
	Images        []string
	OriginalPrice money.Amount
	Condition     string
}

func (uc *ResaleUseCase) Quote(originalPrice money.Amount, condition string) (*entity.ResaleQuote, error) {
	if !originalPrice.IsPositive() {
		return nil, errors.BadRequest("originalPrice must be greater than 0", nil)
	}
	cond := entity.ResaleCondition(condition)
	multiplier, err := cond.Multiplier()
	if err != nil {
		return nil, errors.BadRequest("condition must be one of: new like_new good fair poor", err)
	}
	return &entity.ResaleQuote{
		OriginalPrice: originalPrice,
		Condition:     cond,
		Multiplier:    multiplier,
		Price:         originalPrice.Scale(multiplier),
	}, nil
}

func (uc *ResaleUseCase) CreateResale(ctx context.Context, uid string, input ResaleInput) (*entity.Resale, error) {
	seller, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}
	quote, err := uc.Quote(input.OriginalPrice, input.Condition)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	item := &entity.Resale{
		ID:            uuid.New().String(),
		SellerID:      seller.ID,
		SellerName:    displayName(seller),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Images:        input.Images,
		OriginalPrice: quote.OriginalPrice,
		Condition:     quote.Condition,
		Price:         quote.Price,
		Status:        entity.ResaleStatusAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	if err := uc.resaleRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ResaleUseCase) GetResale(ctx context.Context, id string) (*entity.Resale, error) {
	item, err := uc.resaleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Resale item", err)
		}
		return nil, err
	}
	return item, nil
}

func (uc *ResaleUseCase) ListResales(ctx context.Context, filter repository.ResaleFilter) ([]*entity.Resale, int64, error) {
	return uc.resaleRepo.List(ctx, filter)
}

func (uc *ResaleUseCase) owned(ctx context.Context, uid, id string) (*entity.Resale, error) {
	item, err := uc.GetResale(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SellerID != uid {
		return nil, errors.Forbidden("You don't have permission to modify this item", nil)
	}
	return item, nil
}

// UpdateResale recomputes the price whenever the original price or condition changes.
func (uc *ResaleUseCase) UpdateResale(ctx context.Context, uid, id string, input ResaleInput) (*entity.Resale, error) {
	item, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if item.Status == entity.ResaleStatusSold {
		return nil, errors.BadRequest("Sold items cannot be edited", nil)
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Images != nil {
		item.Images = input.Images
	}

	original := item.OriginalPrice
	if input.OriginalPrice != 0 {
		original = input.OriginalPrice
	}
	condition := string(item.Condition)
	if input.Condition != "" {
		condition = input.Condition
	}
	quote, err := uc.Quote(original, condition)
	if err != nil {
		return nil, err
	}
	item.OriginalPrice = quote.OriginalPrice
	item.Condition = quote.Condition
	item.Price = quote.Price
	item.UpdatedAt = uc.now()

	if err := uc.resaleRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ResaleUseCase) DeleteResale(ctx context.Context, uid, id string) error {
	if _, err := uc.owned(ctx, uid, id); err != nil {
		return err
	}
	return uc.resaleRepo.Delete(ctx, id)
}

func (uc *ResaleUseCase) MarkSold(ctx context.Context, uid, id string) (*entity.Resale, error) {
	item, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if item.Status == entity.ResaleStatusSold {
		return item, nil
	}
	now := uc.now()
	item.Status = entity.ResaleStatusSold
	item.SoldAt = &now
	item.UpdatedAt = now
	if err := uc.resaleRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
