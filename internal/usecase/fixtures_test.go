package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/adapter/repository/memory"
	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/service"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

const webhookSecret = "test-secret"

type sentMail struct {
	To, Subject, Body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type publishedEvent struct {
	Topic, Key string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic, key})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Topic
	}
	return out
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls map[string]int
}

func (b *recordingBroadcaster) BroadcastAuction(auctionID string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = map[string]int{}
	}
	b.calls[auctionID]++
}

type fakeQR struct{}

func (fakeQR) PNG(content string, _ int) ([]byte, error) {
	return []byte("png:" + content), nil
}

// clock is a settable time source shared by the use cases under test.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	repos   *memory.Repositories
	gateway *service.SimplifiedPaymentService
	mailer  *recordingMailer
	events  *recordingPublisher
	clock   *clock
	payment *PaymentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repos:   memory.New(),
		gateway: service.NewSimplifiedPaymentService(webhookSecret),
		mailer:  &recordingMailer{},
		events:  &recordingPublisher{},
		clock:   newClock(),
	}
	f.payment = NewPaymentUseCase(
		f.repos.Orders,
		f.repos.Users,
		f.repos.ShopCards,
		f.repos.Resales,
		f.gateway,
		f.events,
		f.mailer,
		fakeQR{},
		PaymentSettings{
			PlatformFeePercent: decimal.Zero,
			AdminBonus:         money.FromRupees(100),
			ReturnURL:          "http://localhost:3000/payment/status?order_id={order_id}",
			OrderExpiry:        30 * time.Minute,
		},
	)
	f.payment.now = f.clock.Now
	return f
}

func (f *fixture) user(t *testing.T, role string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:        gofakeit.UUID(),
		Email:     gofakeit.Email(),
		Name:      gofakeit.Name(),
		Phone:     gofakeit.Phone(),
		Role:      role,
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) shopCard(t *testing.T, seller *entity.User, price money.Amount, stock int) *entity.ShopCard {
	t.Helper()
	card := &entity.ShopCard{
		ID:        gofakeit.UUID(),
		SellerID:  seller.ID,
		Title:     gofakeit.ProductName(),
		Price:     price,
		Category:  "pottery",
		Images:    []string{gofakeit.URL()},
		Stock:     stock,
		Status:    entity.ShopCardStatusActive,
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	require.NoError(t, f.repos.ShopCards.Create(context.Background(), card))
	return card
}

func (f *fixture) balance(t *testing.T, uid string) money.Amount {
	t.Helper()
	u, err := f.repos.Users.GetByID(context.Background(), uid)
	require.NoError(t, err)
	return u.Balance
}

func requireAppError(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status, appErr.Message)
}
