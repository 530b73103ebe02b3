package memory

import "artisanmart/internal/domain/repository"

// Repositories bundles every in-memory repository over one shared store.
type Repositories struct {
	Store     *Store
	Users     repository.UserRepository
	ShopCards repository.ShopCardRepository
	Auctions  repository.AuctionRepository
	Carts     repository.CartRepository
	Orders    repository.OrderRepository
	Resales   repository.ResaleRepository
	Stories   repository.StoryRepository
}

func New() *Repositories {
	s := NewStore()
	return &Repositories{
		Store:     s,
		Users:     NewUserRepository(s),
		ShopCards: NewShopCardRepository(s),
		Auctions:  NewAuctionRepository(s),
		Carts:     NewCartRepository(s),
		Orders:    NewOrderRepository(s),
		Resales:   NewResaleRepository(s),
		Stories:   NewStoryRepository(s),
	}
}
