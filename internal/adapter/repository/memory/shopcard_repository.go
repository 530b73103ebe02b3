package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type shopCardRepository struct{ s *Store }

func NewShopCardRepository(s *Store) repository.ShopCardRepository {
	return &shopCardRepository{s: s}
}

func (r *shopCardRepository) Create(ctx context.Context, card *entity.ShopCard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if card.ID == "" {
		card.ID = newID()
	}
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	r.s.shopCards[card.ID] = cloneShopCard(card)
	return nil
}

func (r *shopCardRepository) GetByID(ctx context.Context, id string) (*entity.ShopCard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	card, ok := r.s.shopCards[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return cloneShopCard(card), nil
}

func (r *shopCardRepository) List(ctx context.Context, filter entity.ShopCardFilter) ([]*entity.ShopCard, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cards := values(r.s.shopCards, cloneShopCard, filter.Match)
	entity.SortShopCards(cards, filter.Sort)
	return page(cards, filter.Limit, filter.Offset), int64(len(cards)), nil
}

func (r *shopCardRepository) Update(ctx context.Context, card *entity.ShopCard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shopCards[card.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	card.UpdatedAt = time.Now()
	r.s.shopCards[card.ID] = cloneShopCard(card)
	return nil
}

func (r *shopCardRepository) SoftDelete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	card, ok := r.s.shopCards[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	now := time.Now()
	card.DeletedAt = &now
	card.Status = entity.ShopCardStatusDeleted
	card.UpdatedAt = now
	return nil
}

func (r *shopCardRepository) IncrementViews(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if card, ok := r.s.shopCards[id]; ok {
		card.Views++
	}
	return nil
}
