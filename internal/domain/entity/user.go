package entity

import (
	"time"

	"artisanmart/pkg/money"
)

const (
	RoleUser    = "user"
	RoleArtisan = "artisan"
	RoleAdmin   = "admin"
)

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleArtisan || role == RoleAdmin
}

type User struct {
	ID        string       `json:"id" firestore:"id"`
	Email     string       `json:"email" firestore:"email"`
	Name      string       `json:"name" firestore:"name"`
	Phone     string       `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio       string       `json:"bio,omitempty" firestore:"bio,omitempty"`
	AvatarURL string       `json:"avatarUrl,omitempty" firestore:"avatarUrl,omitempty"`
	Role      string       `json:"role" firestore:"role"`
	Provider  string       `json:"provider,omitempty" firestore:"provider,omitempty"`
	Balance   money.Amount `json:"balance" firestore:"balance"`

	HasArtisanSubscription bool             `json:"hasArtisanSubscription" firestore:"hasArtisanSubscription"`
	SubscriptionType       SubscriptionType `json:"subscriptionType,omitempty" firestore:"subscriptionType,omitempty"`
	SubscriptionEndDate    *time.Time       `json:"subscriptionEndDate,omitempty" firestore:"subscriptionEndDate,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) SubscriptionActive(now time.Time) bool {
	return u.HasArtisanSubscription && u.SubscriptionEndDate != nil && u.SubscriptionEndDate.After(now)
}

type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

type SubscriptionStatus struct {
	HasArtisanSubscription bool             `json:"hasArtisanSubscription"`
	SubscriptionType       SubscriptionType `json:"subscriptionType,omitempty"`
	SubscriptionEndDate    *time.Time       `json:"subscriptionEndDate,omitempty"`
	Active                 bool             `json:"active"`
}
