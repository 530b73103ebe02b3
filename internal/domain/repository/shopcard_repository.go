package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type ShopCardRepository interface {
	Create(ctx context.Context, card *entity.ShopCard) error
	GetByID(ctx context.Context, id string) (*entity.ShopCard, error)
	List(ctx context.Context, filter entity.ShopCardFilter) ([]*entity.ShopCard, int64, error)
	Update(ctx context.Context, card *entity.ShopCard) error
	SoftDelete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
