package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/infrastructure/events"
	apperrors "artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

func newAuctionUseCase(f *fixture) (*AuctionUseCase, *recordingBroadcaster) {
	b := &recordingBroadcaster{}
	uc := NewAuctionUseCase(f.repos.Auctions, f.repos.Users, b, f.events)
	uc.now = f.clock.Now
	return uc, b
}

func TestAuctionUseCase_CreateRequiresArtisan(t *testing.T) {
	f := newFixture(t)
	uc, _ := newAuctionUseCase(f)
	buyer := f.user(t, entity.RoleUser)

	_, err := uc.CreateAuction(context.Background(), buyer.ID, CreateAuctionInput{
		Title:           "Brass lamp",
		StartingPrice:   money.FromRupees(100),
		DurationMinutes: 60,
	})
	requireAppError(t, err, http.StatusForbidden)
}

func TestAuctionUseCase_BidLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, broadcaster := newAuctionUseCase(f)
	seller := f.user(t, entity.RoleArtisan)
	alice := f.user(t, entity.RoleUser)
	bob := f.user(t, entity.RoleUser)

	view, err := uc.CreateAuction(ctx, seller.ID, CreateAuctionInput{
		Title:           "Madhubani painting",
		StartingPrice:   money.FromRupees(1000),
		StartTime:       f.clock.Now().Add(time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AuctionNotStarted, view.Phase)
	id := view.ID

	rejected := func(userID string, amount money.Amount) {
		t.Helper()
		_, err := uc.PlaceBid(ctx, id, userID, "", amount)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, "BID_ERROR"), err.Error())
	}

	rejected(alice.ID, money.FromRupees(1500))

	f.clock.Advance(time.Hour)
	rejected(seller.ID, money.FromRupees(1500))
	rejected(alice.ID, money.FromRupees(999))

	view, err = uc.PlaceBid(ctx, id, alice.ID, "", money.FromRupees(1000))
	require.NoError(t, err)
	assert.Equal(t, entity.AuctionLive, view.Phase)
	assert.Equal(t, money.FromRupees(1000), view.HighestBid.Amount)
	assert.Equal(t, alice.Name, view.HighestBid.UserName)

	rejected(bob.ID, money.FromRupees(1000))

	f.clock.Advance(time.Minute)
	view, err = uc.PlaceBid(ctx, id, bob.ID, "Bob", money.FromRupees(1200))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, view.HighestBid.UserID)
	assert.Equal(t, 2, view.BidCount)

	f.clock.Advance(59 * time.Minute)
	rejected(alice.ID, money.FromRupees(5000))

	bids, err := uc.ListBids(ctx, id)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, bob.ID, bids[0].UserID)
	assert.Equal(t, alice.ID, bids[1].UserID)

	assert.Equal(t, 2, broadcaster.calls[id])
	assert.Equal(t, []string{events.TopicAuctionBid, events.TopicAuctionBid}, f.events.topics())
}

func TestAuctionUseCase_ListByPhase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := newAuctionUseCase(f)
	seller := f.user(t, entity.RoleArtisan)

	for _, offset := range []time.Duration{-2 * time.Hour, -10 * time.Minute, time.Hour} {
		_, err := uc.CreateAuction(ctx, seller.ID, CreateAuctionInput{
			Title:           "Lot",
			StartingPrice:   money.FromRupees(10),
			StartTime:       f.clock.Now().Add(offset),
			DurationMinutes: 90,
		})
		if offset == -2*time.Hour {
			// already over when created
			requireAppError(t, err, http.StatusBadRequest)
			continue
		}
		require.NoError(t, err)
	}

	live, err := uc.ListAuctions(ctx, "live", "")
	require.NoError(t, err)
	assert.Len(t, live, 1)

	upcoming, err := uc.ListAuctions(ctx, "upcoming", "")
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	f.clock.Advance(3 * time.Hour)
	ended, err := uc.ListAuctions(ctx, "ended", "")
	require.NoError(t, err)
	assert.Len(t, ended, 2)

	_, err = uc.ListAuctions(ctx, "soon", "")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestAuctionUseCase_DeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := newAuctionUseCase(f)
	seller := f.user(t, entity.RoleArtisan)
	other := f.user(t, entity.RoleArtisan)

	upcoming, err := uc.CreateAuction(ctx, seller.ID, CreateAuctionInput{
		Title: "Upcoming", StartingPrice: money.FromRupees(10),
		StartTime: f.clock.Now().Add(time.Hour), DurationMinutes: 30,
	})
	require.NoError(t, err)
	live, err := uc.CreateAuction(ctx, seller.ID, CreateAuctionInput{
		Title: "Live", StartingPrice: money.FromRupees(10), DurationMinutes: 30,
	})
	require.NoError(t, err)

	requireAppError(t, uc.DeleteAuction(ctx, other.ID, upcoming.ID), http.StatusForbidden)
	requireAppError(t, uc.DeleteAuction(ctx, seller.ID, live.ID), http.StatusBadRequest)
	require.NoError(t, uc.DeleteAuction(ctx, seller.ID, upcoming.ID))

	_, err = uc.GetAuction(ctx, upcoming.ID)
	requireAppError(t, err, http.StatusNotFound)
}
