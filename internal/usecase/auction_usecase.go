package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/internal/infrastructure/events"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

type AuctionUseCase struct {
	auctionRepo repository.AuctionRepository
	userRepo    repository.UserRepository
	broadcaster AuctionBroadcaster
	events      EventPublisher
	now         func() time.Time
}

func NewAuctionUseCase(
	auctionRepo repository.AuctionRepository,
	userRepo repository.UserRepository,
	broadcaster AuctionBroadcaster,
	events EventPublisher,
) *AuctionUseCase {
	return &AuctionUseCase{
		auctionRepo: auctionRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		events:      events,
		now:         time.Now,
	}
}

type CreateAuctionInput struct {
	Title           string
	Description     string
	Images          []string
	StartingPrice   money.Amount
	StartTime       time.Time
	DurationMinutes int
}

type BidEvent struct {
	AuctionID string       `json:"auctionId"`
	UserID    string       `json:"userId"`
	Amount    money.Amount `json:"amount"`
	Time      time.Time    `json:"time"`
}

func (uc *AuctionUseCase) CreateAuction(ctx context.Context, sellerID string, input CreateAuctionInput) (*entity.AuctionView, error) {
	seller, err := requireArtisan(ctx, uc.userRepo, sellerID)
	if err != nil {
		return nil, err
	}

	if !input.StartingPrice.IsPositive() {
		return nil, errors.BadRequest("startingPrice must be greater than 0", nil)
	}
	if input.DurationMinutes <= 0 {
		return nil, errors.BadRequest("durationMinutes must be greater than 0", nil)
	}

	now := uc.now()
	start := input.StartTime
	if start.IsZero() {
		start = now
	}
	if start.Add(time.Duration(input.DurationMinutes) * time.Minute).Before(now) {
		return nil, errors.BadRequest("Auction would already be over", nil)
	}

	auction := &entity.Auction{
		ID:              uuid.New().String(),
		SellerID:        seller.ID,
		SellerName:      displayName(seller),
		Title:           input.Title,
		Description:     input.Description,
		Images:          input.Images,
		StartingPrice:   input.StartingPrice,
		StartTime:       start,
		DurationMinutes: input.DurationMinutes,
		Bids:            []entity.Bid{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if auction.Images == nil {
		auction.Images = []string{}
	}

	if err := uc.auctionRepo.Create(ctx, auction); err != nil {
		return nil, err
	}
	view := auction.View(now)
	return &view, nil
}

func (uc *AuctionUseCase) GetAuction(ctx context.Context, id string) (*entity.AuctionView, error) {
	auction, err := uc.getAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	view := auction.View(uc.now())
	return &view, nil
}

func (uc *AuctionUseCase) getAuction(ctx context.Context, id string) (*entity.Auction, error) {
	auction, err := uc.auctionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Auction", err)
		}
		return nil, err
	}
	return auction, nil
}

// ListAuctions filters on the phase computed at read time. status accepts
// live, ended, upcoming or not-started.
func (uc *AuctionUseCase) ListAuctions(ctx context.Context, status, sellerID string) ([]entity.AuctionView, error) {
	var want entity.AuctionPhase
	switch status {
	case "":
	case "upcoming", string(entity.AuctionNotStarted):
		want = entity.AuctionNotStarted
	case string(entity.AuctionLive):
		want = entity.AuctionLive
	case string(entity.AuctionEnded):
		want = entity.AuctionEnded
	default:
		return nil, errors.BadRequest("status must be one of: live upcoming ended", nil)
	}

	auctions, err := uc.auctionRepo.List(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	views := make([]entity.AuctionView, 0, len(auctions))
	for _, a := range auctions {
		v := a.View(now)
		if want != "" && v.Phase != want {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

func (uc *AuctionUseCase) DeleteAuction(ctx context.Context, uid, id string) error {
	admin := isAdmin(ctx, uc.userRepo, uid)
	now := uc.now()

	err := uc.auctionRepo.Delete(ctx, id, func(a *entity.Auction) error {
		if a.SellerID != uid && !admin {
			return errors.Forbidden("You don't have permission to delete this auction", nil)
		}
		if a.Phase(now) != entity.AuctionNotStarted {
			return errors.BadRequest("Auction has already started", nil)
		}
		if len(a.Bids) > 0 {
			return errors.BadRequest("Auction already has bids", nil)
		}
		return nil
	})
	if err != nil && errors.IsNotFound(err) {
		return errors.NotFound("Auction", err)
	}
	return err
}

// PlaceBid is shared by the socket and the HTTP fallback. Validation and the
// append happen in one storage transaction.
func (uc *AuctionUseCase) PlaceBid(ctx context.Context, auctionID, userID, userName string, amount money.Amount) (*entity.AuctionView, error) {
	if !amount.IsPositive() {
		return nil, errors.BidRejected("Bid amount must be greater than 0", nil)
	}

	if userName == "" {
		if user, err := uc.userRepo.GetByID(ctx, userID); err == nil {
			userName = displayName(user)
		}
	}

	now := uc.now()
	bid := entity.Bid{UserID: userID, UserName: userName, Amount: amount, Time: now}

	auction, err := uc.auctionRepo.PlaceBid(ctx, auctionID, bid, now)
	if err != nil {
		if entity.IsBidRejection(err) {
			return nil, errors.BidRejected(capitalize(err.Error()), err)
		}
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Auction", err)
		}
		return nil, err
	}

	view := auction.View(now)
	uc.broadcaster.BroadcastAuction(auctionID, view)

	if err := uc.events.Publish(ctx, events.TopicAuctionBid, auctionID, BidEvent{
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    amount,
		Time:      now,
	}); err != nil {
		logger.Warn("Failed to publish bid event for auction %s: %v", auctionID, err)
	}

	return &view, nil
}

// ListBids returns the bid history newest first.
func (uc *AuctionUseCase) ListBids(ctx context.Context, id string) ([]entity.Bid, error) {
	auction, err := uc.getAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	bids := append([]entity.Bid(nil), auction.Bids...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Time.After(bids[j].Time) })
	return bids, nil
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
