package usecase

import (
	"context"
	"time"

	"artisanmart/internal/infrastructure/firebase"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	VerifyTokenInfo(ctx context.Context, token string) (*firebase.TokenInfo, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error)
	RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error)
	GenerateLongLivedToken(ctx context.Context, uid string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type QREncoder interface {
	PNG(content string, size int) ([]byte, error)
}

type AuctionBroadcaster interface {
	BroadcastAuction(auctionID string, auction interface{})
}
