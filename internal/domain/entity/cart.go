package entity

import (
	"time"

	"artisanmart/pkg/money"
)

type CartItem struct {
	ProductID string    `json:"productId" firestore:"productId"`
	Quantity  int       `json:"quantity" firestore:"quantity"`
	AddedAt   time.Time `json:"addedAt" firestore:"addedAt"`
}

type Cart struct {
	UserID    string     `json:"userId" firestore:"userId"`
	Items     []CartItem `json:"items" firestore:"items"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
}

// Upsert merges quantity into an existing line or appends a new one.
func (c *Cart) Upsert(productID string, qty int, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty, AddedAt: now})
}

// SetQuantity replaces the quantity; zero or less drops the line.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
		}
		return true
	}
	return false
}

type CartLine struct {
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Product   *ShopCard    `json:"product"`
	Subtotal  money.Amount `json:"subtotal"`
	Available bool         `json:"available"`
}

type CartView struct {
	Items     []CartLine   `json:"items"`
	ItemCount int          `json:"itemCount"`
	Total     money.Amount `json:"total"`
}
