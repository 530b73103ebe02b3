// Package memory keeps every collection in process memory behind one lock. It
// backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
)

type Store struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	shopCards map[string]*entity.ShopCard
	auctions  map[string]*entity.Auction
	carts     map[string]*entity.Cart
	orders    map[string]*entity.Order
	resales   map[string]*entity.Resale
	stories   map[string]*entity.Story
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*entity.User),
		shopCards: make(map[string]*entity.ShopCard),
		auctions:  make(map[string]*entity.Auction),
		carts:     make(map[string]*entity.Cart),
		orders:    make(map[string]*entity.Order),
		resales:   make(map[string]*entity.Resale),
		stories:   make(map[string]*entity.Story),
	}
}

func newID() string {
	return uuid.NewString()
}

func values[T any](m map[string]*T, clone func(*T) *T, keep func(*T) bool) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
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

func sortByTime[T any](items []*T, newestFirst bool, at func(*T) int64) {
	sort.Slice(items, func(i, j int) bool {
		if newestFirst {
			return at(items[i]) > at(items[j])
		}
		return at(items[i]) < at(items[j])
	})
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.SubscriptionEndDate != nil {
		t := *u.SubscriptionEndDate
		c.SubscriptionEndDate = &t
	}
	return &c
}

func cloneShopCard(s *entity.ShopCard) *entity.ShopCard {
	c := *s
	c.Images = append([]string(nil), s.Images...)
	if s.DeletedAt != nil {
		t := *s.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func cloneAuction(a *entity.Auction) *entity.Auction {
	c := *a
	c.Images = append([]string(nil), a.Images...)
	c.Bids = append([]entity.Bid{}, a.Bids...)
	return &c
}

func cloneCart(cart *entity.Cart) *entity.Cart {
	c := *cart
	c.Items = append([]entity.CartItem{}, cart.Items...)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.ProductDetails = append([]entity.ProductSnapshot(nil), o.ProductDetails...)
	if o.PaymentDetails != nil {
		pd := *o.PaymentDetails
		c.PaymentDetails = &pd
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	if o.ClosedAt != nil {
		t := *o.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func cloneResale(r *entity.Resale) *entity.Resale {
	c := *r
	c.Images = append([]string(nil), r.Images...)
	if r.SoldAt != nil {
		t := *r.SoldAt
		c.SoldAt = &t
	}
	return &c
}

func cloneStory(s *entity.Story) *entity.Story {
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	c.LikedBy = append([]string{}, s.LikedBy...)
	return &c
}
