package usecase

import (
	"context"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

func loadUser(ctx context.Context, users repository.UserRepository, uid string) (*entity.User, error) {
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, err
	}
	return user, nil
}

// requireArtisan loads the caller and checks they may sell.
func requireArtisan(ctx context.Context, users repository.UserRepository, uid string) (*entity.User, error) {
	user, err := loadUser(ctx, users, uid)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleArtisan && user.Role != entity.RoleAdmin {
		return nil, errors.Forbidden("Only artisans can perform this action", nil)
	}
	return user, nil
}

func isAdmin(ctx context.Context, users repository.UserRepository, uid string) bool {
	user, err := users.GetByID(ctx, uid)
	return err == nil && user.IsAdmin()
}

func displayName(u *entity.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
