package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type resaleRepository struct{ s *Store }

func NewResaleRepository(s *Store) repository.ResaleRepository {
	return &resaleRepository{s: s}
}

func (r *resaleRepository) Create(ctx context.Context, item *entity.Resale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.s.resales[item.ID] = cloneResale(item)
	return nil
}

func (r *resaleRepository) GetByID(ctx context.Context, id string) (*entity.Resale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.resales[id]
	if !ok {
		return nil, errors.NotFound("Resale item", nil)
	}
	return cloneResale(item), nil
}

func (r *resaleRepository) List(ctx context.Context, filter repository.ResaleFilter) ([]*entity.Resale, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := values(r.s.resales, cloneResale, func(item *entity.Resale) bool {
		return (filter.SellerID == "" || item.SellerID == filter.SellerID) &&
			(filter.Category == "" || item.Category == filter.Category) &&
			(filter.Status == "" || item.Status == filter.Status)
	})
	sortByTime(items, true, func(item *entity.Resale) int64 { return item.CreatedAt.UnixNano() })
	return page(items, filter.Limit, filter.Offset), int64(len(items)), nil
}

func (r *resaleRepository) Update(ctx context.Context, item *entity.Resale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.resales[item.ID]; !ok {
		return errors.NotFound("Resale item", nil)
	}
	item.UpdatedAt = time.Now()
	r.s.resales[item.ID] = cloneResale(item)
	return nil
}

func (r *resaleRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.resales, id)
	return nil
}
