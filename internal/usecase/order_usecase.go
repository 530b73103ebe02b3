package usecase

import (
	"context"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type OrderUseCase struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

func NewOrderUseCase(orderRepo repository.OrderRepository, userRepo repository.UserRepository) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

func (uc *OrderUseCase) ListMyOrders(ctx context.Context, uid string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.List(ctx, entity.OrderFilter{BuyerID: uid, Limit: limit, Offset: offset})
}

func (uc *OrderUseCase) ListSales(ctx context.Context, uid string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.List(ctx, entity.OrderFilter{SellerID: uid, Limit: limit, Offset: offset})
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, uid, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Order", err)
		}
		return nil, err
	}
	if !order.InvolvesUser(uid) && !isAdmin(ctx, uc.userRepo, uid) {
		return nil, errors.Forbidden("You don't have access to this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) AdminListOrders(ctx context.Context, status string, limit, offset int) ([]*entity.Order, int64, error) {
	filter := entity.OrderFilter{Limit: limit, Offset: offset}
	if status != "" {
		s, err := entity.ToOrderStatus(status)
		if err != nil {
			return nil, 0, errors.BadRequest("Invalid order status", err)
		}
		filter.Status = s
	}
	return uc.orderRepo.List(ctx, filter)
}
