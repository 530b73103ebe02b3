package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type StoryRepository interface {
	Create(ctx context.Context, story *entity.Story) error
	GetByID(ctx context.Context, id string) (*entity.Story, error)
	List(ctx context.Context, authorID string, limit, offset int) ([]*entity.Story, int64, error)
	Update(ctx context.Context, story *entity.Story) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, uid string) (*entity.Story, bool, error)
}
