package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/service"
	"artisanmart/pkg/money"
)

func TestResaleUseCase_Quote(t *testing.T) {
	uc := NewResaleUseCase(nil, nil)

	tests := []struct {
		condition string
		want      money.Amount
	}{
		{"new", money.FromRupees(900)},
		{"like_new", money.FromRupees(800)},
		{"good", money.FromRupees(650)},
		{"fair", money.FromRupees(500)},
		{"poor", money.FromRupees(300)},
	}
	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			q, err := uc.Quote(money.FromRupees(1000), tt.condition)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Price)
		})
	}

	_, err := uc.Quote(money.FromRupees(1000), "broken")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestResaleUseCase_UpdateRecomputesPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewResaleUseCase(f.repos.Resales, f.repos.Users)
	owner := f.user(t, entity.RoleUser)
	other := f.user(t, entity.RoleUser)

	item, err := uc.CreateResale(ctx, owner.ID, ResaleInput{
		Title: "Kantha quilt", OriginalPrice: money.FromRupees(2000), Condition: "good",
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(1300), item.Price)

	_, err = uc.UpdateResale(ctx, other.ID, item.ID, ResaleInput{Condition: "new"})
	requireAppError(t, err, http.StatusForbidden)

	item, err = uc.UpdateResale(ctx, owner.ID, item.ID, ResaleInput{Condition: "fair"})
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(1000), item.Price)

	item, err = uc.MarkSold(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ResaleStatusSold, item.Status)
	assert.NotNil(t, item.SoldAt)

	_, err = uc.UpdateResale(ctx, owner.ID, item.ID, ResaleInput{Title: "x"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestResaleUseCase_PaidOrderMarksSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewResaleUseCase(f.repos.Resales, f.repos.Users)
	owner := f.user(t, entity.RoleUser)
	buyer := f.user(t, entity.RoleUser)

	item, err := uc.CreateResale(ctx, owner.ID, ResaleInput{
		Title: "Brass bell", OriginalPrice: money.FromRupees(500), Condition: "like_new",
	})
	require.NoError(t, err)

	res, err := f.payment.CreateOrder(ctx, buyer.ID, CreateOrderInput{
		Amount:   item.Price,
		SellerID: owner.ID,
		ProductDetails: []entity.ProductSnapshot{
			{ProductID: item.ID, Title: item.Title, Price: item.Price, Quantity: 1, Kind: entity.ProductKindResale},
		},
	})
	require.NoError(t, err)
	f.gateway.SetStatus(res.OrderID, service.GatewayStatusPaid, "upi")

	_, err = f.payment.VerifyPayment(ctx, buyer.ID, res.OrderID)
	require.NoError(t, err)

	stored, err := uc.GetResale(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ResaleStatusSold, stored.Status)
	assert.Equal(t, money.FromRupees(400), f.balance(t, owner.ID))
}
