package usecase

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		now:      time.Now,
	}
}

type UpdateProfileInput struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return loadUser(ctx, uc.userRepo, uid)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.BadRequest("name cannot be empty", nil)
		}
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) GetBalance(ctx context.Context, uid string) (money.Amount, error) {
	user, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return money.Zero, err
	}
	return user.Balance, nil
}

func (uc *UserUseCase) GetPublicProfile(ctx context.Context, id string) (*entity.PublicProfile, error) {
	user, err := loadUser(ctx, uc.userRepo, id)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	return &profile, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	if role != "" && !entity.IsValidRole(role) {
		return nil, 0, errors.BadRequest("Invalid role filter", nil)
	}
	return uc.userRepo.ListByRole(ctx, role, limit, offset)
}

func (uc *UserUseCase) UpdateRole(ctx context.Context, adminID, userID, role string) (*entity.User, error) {
	if !entity.IsValidRole(role) {
		return nil, errors.BadRequest("role must be one of: user artisan admin", nil)
	}
	if adminID == userID && role != entity.RoleAdmin {
		return nil, errors.BadRequest("Admins cannot demote themselves", nil)
	}

	user, err := loadUser(ctx, uc.userRepo, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) SubscriptionStatus(ctx context.Context, uid string) (*entity.SubscriptionStatus, error) {
	user, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}
	return &entity.SubscriptionStatus{
		HasArtisanSubscription: user.HasArtisanSubscription,
		SubscriptionType:       user.SubscriptionType,
		SubscriptionEndDate:    user.SubscriptionEndDate,
		Active:                 user.SubscriptionActive(uc.now()),
	}, nil
}
