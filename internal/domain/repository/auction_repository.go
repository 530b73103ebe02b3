package repository

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
)

type AuctionRepository interface {
	Create(ctx context.Context, auction *entity.Auction) error
	GetByID(ctx context.Context, id string) (*entity.Auction, error)
	List(ctx context.Context, sellerID string) ([]*entity.Auction, error)
	// PlaceBid validates the bid against the stored auction and appends it in one
	// transaction. Rejections come back as the entity bid errors.
	PlaceBid(ctx context.Context, auctionID string, bid entity.Bid, now time.Time) (*entity.Auction, error)
	// Delete removes the auction when guard accepts the stored state.
	Delete(ctx context.Context, id string, guard func(*entity.Auction) error) error
}
