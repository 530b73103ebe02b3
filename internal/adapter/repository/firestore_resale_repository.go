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

type firestoreResaleRepository struct {
	client *firestore.Client
}

func NewFirestoreResaleRepository(client *firestore.Client) repository.ResaleRepository {
	return &firestoreResaleRepository{
		client: client,
	}
}

func (r *firestoreResaleRepository) Create(ctx context.Context, item *entity.Resale) error {
	if item.ID == "" {
		item.ID = r.client.Collection(resalesCollection).NewDoc().ID
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := r.client.Collection(resalesCollection).Doc(item.ID).Set(ctx, item); err != nil {
		return errors.Internal("Failed to create resale listing", err)
	}
	return nil
}

func (r *firestoreResaleRepository) GetByID(ctx context.Context, id string) (*entity.Resale, error) {
	doc, err := r.client.Collection(resalesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "Resale item")
	}

	var item entity.Resale
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse resale data", err)
	}
	return &item, nil
}

func (r *firestoreResaleRepository) List(ctx context.Context, filter repository.ResaleFilter) ([]*entity.Resale, int64, error) {
	query := r.client.Collection(resalesCollection).Query
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list resale items", err)
	}

	items, err := decodeAll[entity.Resale](docs, "resale")
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	return page(items, filter.Limit, filter.Offset), int64(len(items)), nil
}

func (r *firestoreResaleRepository) Update(ctx context.Context, item *entity.Resale) error {
	item.UpdatedAt = time.Now()
	if _, err := r.client.Collection(resalesCollection).Doc(item.ID).Set(ctx, item); err != nil {
		return errors.Internal("Failed to update resale listing", err)
	}
	return nil
}

func (r *firestoreResaleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(resalesCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete resale listing", err)
	}
	return nil
}
