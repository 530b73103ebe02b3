package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
)

type cartRepository struct{ s *Store }

func NewCartRepository(s *Store) repository.CartRepository {
	return &cartRepository{s: s}
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[userID]
	if !ok {
		return &entity.Cart{UserID: userID, Items: []entity.CartItem{}}, nil
	}
	return cloneCart(cart), nil
}

func (r *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart.UpdatedAt = time.Now()
	r.s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.carts, userID)
	return nil
}
