package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"artisanmart/pkg/money"
)

func TestAuction_Phase(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &Auction{StartTime: start, DurationMinutes: 30}

	assert.Equal(t, AuctionNotStarted, a.Phase(start.Add(-time.Second)))
	assert.Equal(t, AuctionLive, a.Phase(start))
	assert.Equal(t, AuctionLive, a.Phase(start.Add(29*time.Minute)))
	assert.Equal(t, AuctionEnded, a.Phase(start.Add(30*time.Minute)))
}

func TestAuction_ValidateBid(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	live := start.Add(5 * time.Minute)

	fresh := func() *Auction {
		return &Auction{
			SellerID:        "seller",
			StartingPrice:   money.FromRupees(100),
			StartTime:       start,
			DurationMinutes: 60,
		}
	}
	withBid := func() *Auction {
		a := fresh()
		a.Bids = []Bid{
			{UserID: "a", Amount: money.FromRupees(120)},
			{UserID: "b", Amount: money.FromRupees(150)},
			{UserID: "c", Amount: money.FromRupees(130)},
		}
		return a
	}

	tests := []struct {
		name    string
		auction *Auction
		bidder  string
		amount  money.Amount
		now     time.Time
		wantErr error
	}{
		{name: "seller cannot bid", auction: fresh(), bidder: "seller", amount: money.FromRupees(500), now: live, wantErr: ErrSellerBid},
		{name: "before start", auction: fresh(), bidder: "x", amount: money.FromRupees(500), now: start.Add(-time.Minute), wantErr: ErrAuctionNotLive},
		{name: "after end", auction: fresh(), bidder: "x", amount: money.FromRupees(500), now: start.Add(time.Hour), wantErr: ErrAuctionEnded},
		{name: "first bid at starting price", auction: fresh(), bidder: "x", amount: money.FromRupees(100), now: live},
		{name: "first bid below starting price", auction: fresh(), bidder: "x", amount: money.FromRupees(99), now: live, wantErr: ErrBelowStartPrice},
		{name: "equal to max", auction: withBid(), bidder: "x", amount: money.FromRupees(150), now: live, wantErr: ErrBidTooLow},
		{name: "above max", auction: withBid(), bidder: "x", amount: money.FromPaise(15001), now: live},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.auction.ValidateBid(tt.bidder, tt.amount, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsBidRejection(err))
		})
	}
}

func TestAuction_HighestBidScansAllBids(t *testing.T) {
	a := &Auction{Bids: []Bid{
		{UserID: "a", Amount: money.FromRupees(120)},
		{UserID: "b", Amount: money.FromRupees(150)},
		{UserID: "c", Amount: money.FromRupees(130)},
	}}
	assert.Equal(t, "b", a.HighestBid().UserID)
	assert.Nil(t, (&Auction{}).HighestBid())
}
