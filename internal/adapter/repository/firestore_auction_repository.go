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

type firestoreAuctionRepository struct {
	client *firestore.Client
}

func NewFirestoreAuctionRepository(client *firestore.Client) repository.AuctionRepository {
	return &firestoreAuctionRepository{
		client: client,
	}
}

func (r *firestoreAuctionRepository) Create(ctx context.Context, auction *entity.Auction) error {
	if auction.ID == "" {
		auction.ID = r.client.Collection(auctionsCollection).NewDoc().ID
	}
	if auction.Bids == nil {
		auction.Bids = []entity.Bid{}
	}

	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now

	if _, err := r.client.Collection(auctionsCollection).Doc(auction.ID).Set(ctx, auction); err != nil {
		return errors.Internal("Failed to create auction", err)
	}
	return nil
}

func (r *firestoreAuctionRepository) GetByID(ctx context.Context, id string) (*entity.Auction, error) {
	doc, err := r.client.Collection(auctionsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "Auction")
	}

	var auction entity.Auction
	if err := doc.DataTo(&auction); err != nil {
		return nil, errors.Internal("Failed to parse auction data", err)
	}
	return &auction, nil
}

func (r *firestoreAuctionRepository) List(ctx context.Context, sellerID string) ([]*entity.Auction, error) {
	query := r.client.Collection(auctionsCollection).Query
	if sellerID != "" {
		query = query.Where("sellerId", "==", sellerID)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list auctions", err)
	}

	auctions, err := decodeAll[entity.Auction](docs, "auction")
	if err != nil {
		return nil, err
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].StartTime.Before(auctions[j].StartTime) })
	return auctions, nil
}

// PlaceBid re-reads the auction inside the transaction, so two concurrent bids
// for the same amount cannot both be accepted.
func (r *firestoreAuctionRepository) PlaceBid(ctx context.Context, auctionID string, bid entity.Bid, now time.Time) (*entity.Auction, error) {
	ref := r.client.Collection(auctionsCollection).Doc(auctionID)

	var result entity.Auction
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return wrapGetError(err, "Auction")
		}

		var auction entity.Auction
		if err := doc.DataTo(&auction); err != nil {
			return errors.Internal("Failed to parse auction data", err)
		}

		if err := auction.ValidateBid(bid.UserID, bid.Amount, now); err != nil {
			return err
		}

		auction.Bids = append(auction.Bids, bid)
		auction.UpdatedAt = now
		result = auction

		return tx.Update(ref, []firestore.Update{
			{Path: "bids", Value: auction.Bids},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *firestoreAuctionRepository) Delete(ctx context.Context, id string, guard func(*entity.Auction) error) error {
	ref := r.client.Collection(auctionsCollection).Doc(id)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return wrapGetError(err, "Auction")
		}

		var auction entity.Auction
		if err := doc.DataTo(&auction); err != nil {
			return errors.Internal("Failed to parse auction data", err)
		}
		if err := guard(&auction); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
}
