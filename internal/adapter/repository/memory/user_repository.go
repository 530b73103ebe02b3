package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type userRepository struct{ s *Store }

func NewUserRepository(s *Store) repository.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	stored.Name = user.Name
	stored.Phone = user.Phone
	stored.Bio = user.Bio
	stored.AvatarURL = user.AvatarURL
	stored.Role = user.Role
	stored.Provider = user.Provider
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := values(r.s.users, cloneUser, func(u *entity.User) bool { return role == "" || u.Role == role })
	sortByTime(users, true, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() })
	return page(users, limit, offset), int64(len(users)), nil
}
