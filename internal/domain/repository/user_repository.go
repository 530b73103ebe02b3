package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListByRole lists users, all roles when role is empty.
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error)
}
