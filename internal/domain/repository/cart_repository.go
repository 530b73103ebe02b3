package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type CartRepository interface {
	// Get never fails with not found; a missing cart is empty.
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Clear(ctx context.Context, userID string) error
}
