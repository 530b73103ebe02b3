package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type ResaleFilter struct {
	SellerID string
	Category string
	Status   string
	Limit    int
	Offset   int
}

type ResaleRepository interface {
	Create(ctx context.Context, item *entity.Resale) error
	GetByID(ctx context.Context, id string) (*entity.Resale, error)
	List(ctx context.Context, filter ResaleFilter) ([]*entity.Resale, int64, error)
	Update(ctx context.Context, item *entity.Resale) error
	Delete(ctx context.Context, id string) error
}
