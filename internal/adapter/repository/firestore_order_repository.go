package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	// Create fails if the id is already taken.
	if _, err := r.client.Collection(ordersCollection).Doc(order.OrderID).Create(ctx, order); err != nil {
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(orderID).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "Order")
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	return &order, nil
}

func (r *firestoreOrderRepository) AttachPaymentSession(ctx context.Context, orderID, sessionID, link string) error {
	_, err := r.client.Collection(ordersCollection).Doc(orderID).Update(ctx, []firestore.Update{
		{Path: "paymentSessionId", Value: sessionID},
		{Path: "paymentLink", Value: link},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return wrapGetError(err, "Order")
	}
	return nil
}

func (r *firestoreOrderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error) {
	query := r.client.Collection(ordersCollection).Query
	if filter.BuyerID != "" {
		query = query.Where("buyerId", "==", filter.BuyerID)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list orders", err)
	}

	orders, err := decodeAll[entity.Order](docs, "order")
	if err != nil {
		return nil, 0, err
	}

	if !filter.CreatedBefore.IsZero() {
		kept := orders[:0]
		for _, o := range orders {
			if o.CreatedAt.Before(filter.CreatedBefore) {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return page(orders, filter.Limit, filter.Offset), int64(len(orders)), nil
}

// Settle runs the whole pending -> terminal transition in one transaction. All
// reads happen before any write, as Firestore requires.
func (r *firestoreOrderRepository) Settle(ctx context.Context, orderID string, s entity.Settlement) (*entity.Order, bool, error) {
	orderRef := r.client.Collection(ordersCollection).Doc(orderID)

	var result entity.Order
	var applied bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = false

		doc, err := tx.Get(orderRef)
		if err != nil {
			return wrapGetError(err, "Order")
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return errors.Internal("Failed to parse order data", err)
		}
		result = order

		if order.Status != entity.OrderStatusPending {
			return nil
		}

		var buyerRef *firestore.DocumentRef
		var buyer entity.User
		if s.Subscription != nil {
			buyerRef = r.client.Collection(usersCollection).Doc(s.Subscription.UserID)
			buyerDoc, err := tx.Get(buyerRef)
			if err != nil {
				return wrapGetError(err, "User")
			}
			if err := buyerDoc.DataTo(&buyer); err != nil {
				return errors.Internal("Failed to parse user data", err)
			}
		}

		type stockRead struct {
			ref  *firestore.DocumentRef
			card entity.ShopCard
			qty  int
		}
		var stock []stockRead
		for _, dec := range s.StockDecrements {
			ref := r.client.Collection(shopCardsCollection).Doc(dec.ProductID)
			cardDoc, err := tx.Get(ref)
			if missingDoc(err) {
				// Purged listings have no stock left to adjust.
				continue
			}
			if err != nil {
				return errors.Internal("Failed to read product stock", err)
			}
			var card entity.ShopCard
			if err := cardDoc.DataTo(&card); err != nil {
				return errors.Internal("Failed to parse product data", err)
			}
			stock = append(stock, stockRead{ref: ref, card: card, qty: dec.Quantity})
		}

		updates := []firestore.Update{
			{Path: "status", Value: string(s.Status)},
			{Path: "updatedAt", Value: s.At},
		}
		if s.PaymentDetails != nil {
			updates = append(updates, firestore.Update{Path: "paymentDetails", Value: s.PaymentDetails})
		}
		if s.Status == entity.OrderStatusPaid {
			updates = append(updates, firestore.Update{Path: "paidAt", Value: s.At})
		} else {
			updates = append(updates, firestore.Update{Path: "closedAt", Value: s.At})
		}
		if err := tx.Update(orderRef, updates); err != nil {
			return err
		}

		for userID, amount := range s.CreditsByUser() {
			ref := r.client.Collection(usersCollection).Doc(userID)
			err := tx.Set(ref, map[string]interface{}{
				"balance":   firestore.Increment(int64(amount)),
				"updatedAt": s.At,
			}, firestore.MergeAll)
			if err != nil {
				return err
			}
		}

		if buyerRef != nil {
			end := s.Subscription.Type.ExtendFrom(s.At, buyer.SubscriptionEndDate)
			err := tx.Update(buyerRef, []firestore.Update{
				{Path: "hasArtisanSubscription", Value: true},
				{Path: "subscriptionType", Value: string(s.Subscription.Type)},
				{Path: "subscriptionEndDate", Value: end},
				{Path: "updatedAt", Value: s.At},
			})
			if err != nil {
				return err
			}
		}

		for _, st := range stock {
			remaining := st.card.Stock - st.qty
			if remaining < 0 {
				remaining = 0
			}
			cardUpdates := []firestore.Update{
				{Path: "stock", Value: remaining},
				{Path: "soldCount", Value: firestore.Increment(st.qty)},
				{Path: "updatedAt", Value: s.At},
			}
			if remaining == 0 && st.card.Status == entity.ShopCardStatusActive {
				cardUpdates = append(cardUpdates, firestore.Update{Path: "status", Value: entity.ShopCardStatusSoldOut})
			}
			if err := tx.Update(st.ref, cardUpdates); err != nil {
				return err
			}
		}

		result.Status = s.Status
		result.PaymentDetails = s.PaymentDetails
		result.UpdatedAt = s.At
		at := s.At
		if s.Status == entity.OrderStatusPaid {
			result.PaidAt = &at
		} else {
			result.ClosedAt = &at
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &result, applied, nil
}
