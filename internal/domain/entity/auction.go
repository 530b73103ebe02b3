package entity

import (
	"errors"
	"time"

	"artisanmart/pkg/money"
)

type AuctionPhase string

const (
	AuctionNotStarted AuctionPhase = "not-started"
	AuctionLive       AuctionPhase = "live"
	AuctionEnded      AuctionPhase = "ended"
)

var (
	ErrSellerBid       = errors.New("sellers cannot bid on their own auction")
	ErrAuctionNotLive  = errors.New("auction has not started yet")
	ErrAuctionEnded    = errors.New("auction has ended")
	ErrBidTooLow       = errors.New("bid must be higher than the current highest bid")
	ErrBelowStartPrice = errors.New("bid must be at least the starting price")
)

type Bid struct {
	UserID   string       `json:"userId" firestore:"userId"`
	UserName string       `json:"userName" firestore:"userName"`
	Amount   money.Amount `json:"amount" firestore:"amount"`
	Time     time.Time    `json:"time" firestore:"time"`
}

type Auction struct {
	ID              string       `json:"id" firestore:"id"`
	SellerID        string       `json:"sellerId" firestore:"sellerId"`
	SellerName      string       `json:"sellerName" firestore:"sellerName"`
	Title           string       `json:"title" firestore:"title"`
	Description     string       `json:"description" firestore:"description"`
	Images          []string     `json:"images" firestore:"images"`
	StartingPrice   money.Amount `json:"startingPrice" firestore:"startingPrice"`
	StartTime       time.Time    `json:"startTime" firestore:"startTime"`
	DurationMinutes int          `json:"durationMinutes" firestore:"durationMinutes"`
	Bids            []Bid        `json:"bids" firestore:"bids"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (a *Auction) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Phase is derived on every read; the live window is [start, start+duration).
func (a *Auction) Phase(now time.Time) AuctionPhase {
	switch {
	case now.Before(a.StartTime):
		return AuctionNotStarted
	case now.Before(a.EndTime()):
		return AuctionLive
	default:
		return AuctionEnded
	}
}

// HighestBid scans the bid list. Nil when nobody has bid.
func (a *Auction) HighestBid() *Bid {
	var best *Bid
	for i := range a.Bids {
		if best == nil || a.Bids[i].Amount > best.Amount {
			best = &a.Bids[i]
		}
	}
	return best
}

func (a *Auction) ValidateBid(bidderID string, amount money.Amount, now time.Time) error {
	if bidderID == a.SellerID {
		return ErrSellerBid
	}

	switch a.Phase(now) {
	case AuctionNotStarted:
		return ErrAuctionNotLive
	case AuctionEnded:
		return ErrAuctionEnded
	}

	if top := a.HighestBid(); top != nil {
		if amount <= top.Amount {
			return ErrBidTooLow
		}
		return nil
	}
	if amount < a.StartingPrice {
		return ErrBelowStartPrice
	}
	return nil
}

func IsBidRejection(err error) bool {
	return errors.Is(err, ErrSellerBid) ||
		errors.Is(err, ErrAuctionNotLive) ||
		errors.Is(err, ErrAuctionEnded) ||
		errors.Is(err, ErrBidTooLow) ||
		errors.Is(err, ErrBelowStartPrice)
}

// AuctionView is the read model returned to clients.
type AuctionView struct {
	*Auction
	Phase      AuctionPhase `json:"phase"`
	EndTime    time.Time    `json:"endTime"`
	HighestBid *Bid         `json:"highestBid"`
	BidCount   int          `json:"bidCount"`
}

func (a *Auction) View(now time.Time) AuctionView {
	return AuctionView{
		Auction:    a,
		Phase:      a.Phase(now),
		EndTime:    a.EndTime(),
		HighestBid: a.HighestBid(),
		BidCount:   len(a.Bids),
	}
}
