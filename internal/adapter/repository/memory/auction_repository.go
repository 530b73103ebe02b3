package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type auctionRepository struct{ s *Store }

func NewAuctionRepository(s *Store) repository.AuctionRepository {
	return &auctionRepository{s: s}
}

func (r *auctionRepository) Create(ctx context.Context, auction *entity.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if auction.ID == "" {
		auction.ID = newID()
	}
	if auction.Bids == nil {
		auction.Bids = []entity.Bid{}
	}
	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now
	r.s.auctions[auction.ID] = cloneAuction(auction)
	return nil
}

func (r *auctionRepository) GetByID(ctx context.Context, id string) (*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.auctions[id]
	if !ok {
		return nil, errors.NotFound("Auction", nil)
	}
	return cloneAuction(a), nil
}

func (r *auctionRepository) List(ctx context.Context, sellerID string) ([]*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	auctions := values(r.s.auctions, cloneAuction, func(a *entity.Auction) bool {
		return sellerID == "" || a.SellerID == sellerID
	})
	sortByTime(auctions, false, func(a *entity.Auction) int64 { return a.StartTime.UnixNano() })
	return auctions, nil
}

func (r *auctionRepository) PlaceBid(ctx context.Context, auctionID string, bid entity.Bid, now time.Time) (*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.auctions[auctionID]
	if !ok {
		return nil, errors.NotFound("Auction", nil)
	}
	if err := a.ValidateBid(bid.UserID, bid.Amount, now); err != nil {
		return nil, err
	}
	a.Bids = append(a.Bids, bid)
	a.UpdatedAt = now
	return cloneAuction(a), nil
}

func (r *auctionRepository) Delete(ctx context.Context, id string, guard func(*entity.Auction) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.auctions[id]
	if !ok {
		return errors.NotFound("Auction", nil)
	}
	if err := guard(cloneAuction(a)); err != nil {
		return err
	}
	delete(r.s.auctions, id)
	return nil
}
