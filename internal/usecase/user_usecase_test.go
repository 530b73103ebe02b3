package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
)

func TestUserUseCase_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.repos.Users)
	u := f.user(t, entity.RoleUser)

	bio := "Third generation weaver"
	updated, err := uc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, u.Name, updated.Name)

	empty := ""
	_, err = uc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Name: &empty})
	requireAppError(t, err, http.StatusBadRequest)

	profile, err := uc.GetPublicProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, profile.Bio)
}

func TestUserUseCase_UpdateRole(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.repos.Users)
	admin := f.user(t, entity.RoleAdmin)
	u := f.user(t, entity.RoleUser)

	updated, err := uc.UpdateRole(context.Background(), admin.ID, u.ID, entity.RoleArtisan)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleArtisan, updated.Role)

	_, err = uc.UpdateRole(context.Background(), admin.ID, u.ID, "owner")
	requireAppError(t, err, http.StatusBadRequest)

	_, err = uc.UpdateRole(context.Background(), admin.ID, admin.ID, entity.RoleUser)
	requireAppError(t, err, http.StatusBadRequest)

	artisans, total, err := uc.ListUsers(context.Background(), entity.RoleArtisan, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, u.ID, artisans[0].ID)
}

func TestUserUseCase_SubscriptionStatus(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.repos.Users)
	uc.now = f.clock.Now
	u := f.user(t, entity.RoleArtisan)

	status, err := uc.SubscriptionStatus(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, status.Active)

	sub := NewSubscriptionUseCase(f.payment, uc)
	res, err := sub.Subscribe(context.Background(), u.ID, SubscribeInput{Plan: "yearly"})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionYearly.Price(), res.Amount)

	f.gateway.SetStatus(res.OrderID, "PAID", "upi")
	_, err = f.payment.VerifyPayment(context.Background(), u.ID, res.OrderID)
	require.NoError(t, err)

	status, err = uc.SubscriptionStatus(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, entity.SubscriptionYearly, status.SubscriptionType)
}
