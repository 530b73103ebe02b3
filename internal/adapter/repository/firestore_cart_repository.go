package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type firestoreCartRepository struct {
	client *firestore.Client
}

func NewFirestoreCartRepository(client *firestore.Client) repository.CartRepository {
	return &firestoreCartRepository{
		client: client,
	}
}

func (r *firestoreCartRepository) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	doc, err := r.client.Collection(cartsCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return &entity.Cart{UserID: userID, Items: []entity.CartItem{}}, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to get cart", err)
	}

	var cart entity.Cart
	if err := doc.DataTo(&cart); err != nil {
		return nil, errors.Internal("Failed to parse cart data", err)
	}
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	return &cart, nil
}

func (r *firestoreCartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cart.UpdatedAt = time.Now()
	if _, err := r.client.Collection(cartsCollection).Doc(cart.UserID).Set(ctx, cart); err != nil {
		return errors.Internal("Failed to save cart", err)
	}
	return nil
}

func (r *firestoreCartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.client.Collection(cartsCollection).Doc(userID).Delete(ctx); err != nil {
		return errors.Internal("Failed to clear cart", err)
	}
	return nil
}
