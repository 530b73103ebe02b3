package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type firestoreShopCardRepository struct {
	client *firestore.Client
}

func NewFirestoreShopCardRepository(client *firestore.Client) repository.ShopCardRepository {
	return &firestoreShopCardRepository{
		client: client,
	}
}

func (r *firestoreShopCardRepository) Create(ctx context.Context, card *entity.ShopCard) error {
	if card.ID == "" {
		card.ID = r.client.Collection(shopCardsCollection).NewDoc().ID
	}

	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	_, err := r.client.Collection(shopCardsCollection).Doc(card.ID).Set(ctx, card)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	return nil
}

func (r *firestoreShopCardRepository) GetByID(ctx context.Context, id string) (*entity.ShopCard, error) {
	doc, err := r.client.Collection(shopCardsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "Product")
	}

	var card entity.ShopCard
	if err := doc.DataTo(&card); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	return &card, nil
}

// List pushes equality filters to Firestore and applies price band, title search,
// sorting and paging in memory; Firestore has no full-text search.
func (r *firestoreShopCardRepository) List(ctx context.Context, filter entity.ShopCardFilter) ([]*entity.ShopCard, int64, error) {
	query := r.client.Collection(shopCardsCollection).Query
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	all, err := decodeAll[entity.ShopCard](docs, "product")
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*entity.ShopCard, 0, len(all))
	for _, card := range all {
		if filter.Match(card) {
			matched = append(matched, card)
		}
	}
	entity.SortShopCards(matched, filter.Sort)

	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *firestoreShopCardRepository) Update(ctx context.Context, card *entity.ShopCard) error {
	card.UpdatedAt = time.Now()

	_, err := r.client.Collection(shopCardsCollection).Doc(card.ID).Set(ctx, card)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}
	return nil
}

func (r *firestoreShopCardRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection(shopCardsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: now},
		{Path: "status", Value: entity.ShopCardStatusDeleted},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return wrapGetError(err, "Product")
	}
	return nil
}

func (r *firestoreShopCardRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection(shopCardsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment product views", err)
	}
	return nil
}
