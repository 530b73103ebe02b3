package repository

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"artisanmart/pkg/errors"
)

const (
	usersCollection     = "users"
	shopCardsCollection = "shopcards"
	auctionsCollection  = "auctions"
	cartsCollection     = "carts"
	ordersCollection    = "orders"
	resalesCollection   = "resales"
	storiesCollection   = "stories"
)

func decodeAll[T any](docs []*firestore.DocumentSnapshot, what string) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse "+what+" data", err)
		}
		out = append(out, &item)
	}
	return out, nil
}

// missingDoc reports whether a read failed only because the document does
// not exist.
func missingDoc(err error) bool {
	return status.Code(err) == codes.NotFound
}

// wrapGetError maps a Firestore NotFound to the resource's not found error.
func wrapGetError(err error, resource string) error {
	if missingDoc(err) {
		return errors.NotFound(resource, err)
	}
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.Internal("Failed to get "+resource, err)
}

func page[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
