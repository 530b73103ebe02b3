package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type orderRepository struct{ s *Store }

func NewOrderRepository(s *Store) repository.OrderRepository {
	return &orderRepository{s: s}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.orders[order.OrderID]; exists {
		return errors.Conflict("Order already exists")
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.s.orders[order.OrderID] = cloneOrder(order)
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	return cloneOrder(o), nil
}

func (r *orderRepository) AttachPaymentSession(ctx context.Context, orderID, sessionID, link string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return errors.NotFound("Order", nil)
	}
	o.PaymentSessionID = sessionID
	o.PaymentLink = link
	o.UpdatedAt = time.Now()
	return nil
}

func (r *orderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orders := values(r.s.orders, cloneOrder, func(o *entity.Order) bool {
		if filter.BuyerID != "" && o.BuyerID != filter.BuyerID {
			return false
		}
		if filter.SellerID != "" && o.SellerID != filter.SellerID {
			return false
		}
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if !filter.CreatedBefore.IsZero() && !o.CreatedAt.Before(filter.CreatedBefore) {
			return false
		}
		return true
	})
	sortByTime(orders, true, func(o *entity.Order) int64 { return o.CreatedAt.UnixNano() })
	return page(orders, filter.Limit, filter.Offset), int64(len(orders)), nil
}

func (r *orderRepository) Settle(ctx context.Context, orderID string, s entity.Settlement) (*entity.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, false, errors.NotFound("Order", nil)
	}
	if o.Status != entity.OrderStatusPending {
		return cloneOrder(o), false, nil
	}

	var buyer *entity.User
	if s.Subscription != nil {
		buyer, ok = r.s.users[s.Subscription.UserID]
		if !ok {
			return nil, false, errors.NotFound("User", nil)
		}
	}

	o.Status = s.Status
	o.UpdatedAt = s.At
	if s.PaymentDetails != nil {
		pd := *s.PaymentDetails
		o.PaymentDetails = &pd
	}
	at := s.At
	if s.Status == entity.OrderStatusPaid {
		o.PaidAt = &at
	} else {
		o.ClosedAt = &at
	}

	for userID, amount := range s.CreditsByUser() {
		u, ok := r.s.users[userID]
		if !ok {
			u = &entity.User{ID: userID, CreatedAt: s.At}
			r.s.users[userID] = u
		}
		u.Balance += amount
		u.UpdatedAt = s.At
	}

	if buyer != nil {
		end := s.Subscription.Type.ExtendFrom(s.At, buyer.SubscriptionEndDate)
		buyer.HasArtisanSubscription = true
		buyer.SubscriptionType = s.Subscription.Type
		buyer.SubscriptionEndDate = &end
		buyer.UpdatedAt = s.At
	}

	for _, dec := range s.StockDecrements {
		card, ok := r.s.shopCards[dec.ProductID]
		if !ok {
			continue
		}
		card.Stock -= dec.Quantity
		if card.Stock < 0 {
			card.Stock = 0
		}
		card.SoldCount += dec.Quantity
		if card.Stock == 0 && card.Status == entity.ShopCardStatusActive {
			card.Status = entity.ShopCardStatusSoldOut
		}
		card.UpdatedAt = s.At
	}

	return cloneOrder(o), true, nil
}
