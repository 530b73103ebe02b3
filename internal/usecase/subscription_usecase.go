package usecase

import (
	"context"

	"artisanmart/internal/domain/entity"
	"artisanmart/pkg/errors"
)

type SubscriptionUseCase struct {
	payments *PaymentUseCase
	users    *UserUseCase
}

func NewSubscriptionUseCase(payments *PaymentUseCase, users *UserUseCase) *SubscriptionUseCase {
	return &SubscriptionUseCase{payments: payments, users: users}
}

type SubscribeInput struct {
	Plan          string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

func (uc *SubscriptionUseCase) Plans() []entity.SubscriptionPlan {
	return entity.SubscriptionPlans()
}

func (uc *SubscriptionUseCase) Status(ctx context.Context, uid string) (*entity.SubscriptionStatus, error) {
	return uc.users.SubscriptionStatus(ctx, uid)
}

// Subscribe opens a payment order for the plan at its fixed price.
func (uc *SubscriptionUseCase) Subscribe(ctx context.Context, uid string, input SubscribeInput) (*CreateOrderResult, error) {
	plan, err := entity.ToSubscriptionType(input.Plan)
	if err != nil {
		return nil, errors.BadRequest("plan must be one of: monthly yearly", err)
	}

	user, err := uc.users.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	name, email, phone := input.CustomerName, input.CustomerEmail, input.CustomerPhone
	if name == "" {
		name = displayName(user)
	}
	if email == "" {
		email = user.Email
	}
	if phone == "" {
		phone = user.Phone
	}

	return uc.payments.CreateOrder(ctx, uid, CreateOrderInput{
		CustomerName:     name,
		CustomerEmail:    email,
		CustomerPhone:    phone,
		Amount:           plan.Price(),
		IsSubscription:   true,
		SubscriptionType: string(plan),
	})
}
