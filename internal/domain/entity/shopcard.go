package entity

import (
	"sort"
	"strings"
	"time"

	"artisanmart/pkg/money"
)

const (
	ShopCardStatusActive  = "active"
	ShopCardStatusDraft   = "draft"
	ShopCardStatusSoldOut = "sold_out"
	ShopCardStatusDeleted = "deleted"
)

type ShopCard struct {
	ID          string       `json:"id" firestore:"id"`
	SellerID    string       `json:"sellerId" firestore:"sellerId"`
	SellerName  string       `json:"sellerName" firestore:"sellerName"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Price       money.Amount `json:"price" firestore:"price"`
	Category    string       `json:"category" firestore:"category"`
	Images      []string     `json:"images" firestore:"images"`
	Stock       int          `json:"stock" firestore:"stock"`
	Status      string       `json:"status" firestore:"status"`
	Views       int          `json:"views" firestore:"views"`
	SoldCount   int          `json:"soldCount" firestore:"soldCount"`

	CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

func (s *ShopCard) IsPurchasable() bool {
	return s.Status == ShopCardStatusActive && s.Stock > 0
}

func (s *ShopCard) CoverImage() string {
	if len(s.Images) == 0 {
		return ""
	}
	return s.Images[0]
}

type ShopCardFilter struct {
	Category string
	SellerID string
	MinPrice *money.Amount
	MaxPrice *money.Amount
	Query    string
	Sort     string // newest, price_asc, price_desc, popular
	Status   string
	Limit    int
	Offset   int
}

// Match applies the filters Firestore cannot express (price band, title search).
func (f ShopCardFilter) Match(s *ShopCard) bool {
	if s.DeletedAt != nil || s.Status == ShopCardStatusDeleted {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.SellerID != "" && s.SellerID != f.SellerID {
		return false
	}
	if f.MinPrice != nil && s.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && s.Price > *f.MaxPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(s.Title), q) && !strings.Contains(strings.ToLower(s.Description), q) {
			return false
		}
	}
	return true
}

func SortShopCards(cards []*ShopCard, sortBy string) {
	var less func(a, b *ShopCard) bool
	switch sortBy {
	case "price_asc":
		less = func(a, b *ShopCard) bool { return a.Price < b.Price }
	case "price_desc":
		less = func(a, b *ShopCard) bool { return a.Price > b.Price }
	case "popular":
		less = func(a, b *ShopCard) bool { return a.Views > b.Views }
	default:
		less = func(a, b *ShopCard) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(cards, func(i, j int) bool { return less(cards[i], cards[j]) })
}
