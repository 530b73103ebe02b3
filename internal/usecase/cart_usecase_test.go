package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
	"artisanmart/pkg/money"
)

func newCartUseCase(f *fixture) *CartUseCase {
	uc := NewCartUseCase(f.repos.Carts, f.repos.ShopCards, f.payment)
	uc.now = f.clock.Now
	return uc
}

func TestCartUseCase_AddMergesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newCartUseCase(f)
	buyer := f.user(t, entity.RoleUser)
	seller := f.user(t, entity.RoleArtisan)
	card := f.shopCard(t, seller, money.FromRupees(150), 5)

	_, err := uc.AddItem(ctx, buyer.ID, card.ID, 1)
	require.NoError(t, err)
	view, err := uc.AddItem(ctx, buyer.ID, card.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, money.FromRupees(450), view.Total)

	_, err = uc.AddItem(ctx, buyer.ID, card.ID, 3)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = uc.AddItem(ctx, seller.ID, card.ID, 1)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestCartUseCase_UpdateToZeroRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newCartUseCase(f)
	buyer := f.user(t, entity.RoleUser)
	seller := f.user(t, entity.RoleArtisan)
	card := f.shopCard(t, seller, money.FromRupees(150), 5)

	_, err := uc.AddItem(ctx, buyer.ID, card.ID, 2)
	require.NoError(t, err)

	view, err := uc.UpdateItem(ctx, buyer.ID, card.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = uc.RemoveItem(ctx, buyer.ID, card.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestCartUseCase_CheckoutSplitsBySeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newCartUseCase(f)
	buyer := f.user(t, entity.RoleUser)
	potter := f.user(t, entity.RoleArtisan)
	weaver := f.user(t, entity.RoleArtisan)

	vase := f.shopCard(t, potter, money.FromRupees(300), 3)
	bowl := f.shopCard(t, potter, money.FromRupees(120), 3)
	shawl := f.shopCard(t, weaver, money.FromRupees(1500), 1)

	for _, add := range []struct {
		id  string
		qty int
	}{{vase.ID, 1}, {bowl.ID, 2}, {shawl.ID, 1}} {
		_, err := uc.AddItem(ctx, buyer.ID, add.id, add.qty)
		require.NoError(t, err)
	}

	results, err := uc.Checkout(ctx, buyer.ID, CheckoutInput{
		CustomerName:  buyer.Name,
		CustomerEmail: buyer.Email,
		CustomerPhone: buyer.Phone,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	bySeller := map[string]*entity.Order{}
	for _, r := range results {
		order, err := f.repos.Orders.GetByID(ctx, r.OrderID)
		require.NoError(t, err)
		bySeller[order.SellerID] = order
	}
	require.Contains(t, bySeller, potter.ID)
	require.Contains(t, bySeller, weaver.ID)
	assert.Equal(t, money.FromRupees(540), bySeller[potter.ID].Amount)
	assert.Len(t, bySeller[potter.ID].ProductDetails, 2)
	assert.Equal(t, money.FromRupees(1500), bySeller[weaver.ID].Amount)

	view, err := uc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartUseCase_CheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	uc := newCartUseCase(f)
	buyer := f.user(t, entity.RoleUser)

	_, err := uc.Checkout(context.Background(), buyer.ID, CheckoutInput{})
	requireAppError(t, err, http.StatusBadRequest)
}
