package repository

import (
	"context"

	"artisanmart/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	AttachPaymentSession(ctx context.Context, orderID, sessionID, link string) error
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error)
	// Settle applies s only while the order is still pending. applied is false
	// when another caller already moved it out of pending; the stored order is
	// returned either way.
	Settle(ctx context.Context, orderID string, s entity.Settlement) (order *entity.Order, applied bool, err error)
}
