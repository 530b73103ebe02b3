package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/gcloud"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"artisanmart/internal/adapter/repository"
	"artisanmart/internal/domain/entity"
	domainrepo "artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

const (
	emulatorImage = "gcr.io/google.com/cloudsdktool/cloud-sdk:367.0.0-emulators"
	projectID     = "artisanmart-test"
)

type firestoreSuite struct {
	suite.Suite

	container *gcloud.GCloudContainer
	client    *firestore.Client

	users     domainrepo.UserRepository
	shopCards domainrepo.ShopCardRepository
	auctions  domainrepo.AuctionRepository
	orders    domainrepo.OrderRepository
}

func TestFirestoreRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("firestore emulator suite skipped in -short mode")
	}
	suite.Run(t, new(firestoreSuite))
}

func (s *firestoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := gcloud.RunFirestore(ctx, emulatorImage, gcloud.WithProjectID(projectID))
	s.Require().NoError(err)
	s.container = container

	conn, err := grpc.NewClient(container.URI, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)

	s.client, err = firestore.NewClient(ctx, projectID, option.WithGRPCConn(conn))
	s.Require().NoError(err)

	s.users = repository.NewFirestoreUserRepository(s.client)
	s.shopCards = repository.NewFirestoreShopCardRepository(s.client)
	s.auctions = repository.NewFirestoreAuctionRepository(s.client)
	s.orders = repository.NewFirestoreOrderRepository(s.client)
}

func (s *firestoreSuite) TearDownSuite() {
	if s.client != nil {
		s.NoError(s.client.Close())
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(context.Background()))
	}
}

var timeOpts = cmp.Options{
	cmpopts.EquateApproxTime(time.Millisecond),
	cmpopts.EquateEmpty(),
}

func fakeUser(role string) *entity.User {
	return &entity.User{
		ID:    gofakeit.UUID(),
		Email: gofakeit.Email(),
		Name:  gofakeit.Name(),
		Role:  role,
	}
}

func (s *firestoreSuite) TestUserRoundTrip() {
	t := s.T()
	ctx := context.Background()

	user := fakeUser(entity.RoleArtisan)
	require.NoError(t, s.users.Create(ctx, user))

	got, err := s.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(user, got, timeOpts); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}

	byEmail, err := s.users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.users.GetByID(ctx, "missing-"+gofakeit.UUID())
	assert.True(t, errors.IsNotFound(err))
}

func (s *firestoreSuite) TestShopCardSoftDeleteHidesFromList() {
	t := s.T()
	ctx := context.Background()

	seller := fakeUser(entity.RoleArtisan)
	require.NoError(t, s.users.Create(ctx, seller))

	card := &entity.ShopCard{
		ID:       gofakeit.UUID(),
		SellerID: seller.ID,
		Title:    gofakeit.ProductName(),
		Price:    money.FromRupees(750),
		Category: "textiles",
		Stock:    2,
		Status:   entity.ShopCardStatusActive,
	}
	require.NoError(t, s.shopCards.Create(ctx, card))

	cards, _, err := s.shopCards.List(ctx, entity.ShopCardFilter{SellerID: seller.ID})
	require.NoError(t, err)
	require.Len(t, cards, 1)

	require.NoError(t, s.shopCards.SoftDelete(ctx, card.ID))

	cards, total, err := s.shopCards.List(ctx, entity.ShopCardFilter{SellerID: seller.ID})
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Zero(t, total)
}

func (s *firestoreSuite) TestConcurrentEqualBidsAcceptOnlyOne() {
	t := s.T()
	ctx := context.Background()
	now := time.Now().UTC()

	auction := &entity.Auction{
		ID:              gofakeit.UUID(),
		SellerID:        "seller-" + gofakeit.UUID(),
		Title:           gofakeit.ProductName(),
		StartingPrice:   money.FromRupees(100),
		StartTime:       now.Add(-time.Minute),
		DurationMinutes: 60,
	}
	require.NoError(t, s.auctions.Create(ctx, auction))

	const bidders = 5
	var wg sync.WaitGroup
	errs := make([]error, bidders)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.auctions.PlaceBid(ctx, auction.ID, entity.Bid{
				UserID:   gofakeit.UUID(),
				UserName: gofakeit.Name(),
				Amount:   money.FromRupees(150),
				Time:     now,
			}, now)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)

	got, err := s.auctions.GetByID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Len(t, got.Bids, 1)
}

func (s *firestoreSuite) TestSettleAppliesOnce() {
	t := s.T()
	ctx := context.Background()
	now := time.Now().UTC()

	buyer := fakeUser(entity.RoleUser)
	seller := fakeUser(entity.RoleArtisan)
	require.NoError(t, s.users.Create(ctx, buyer))
	require.NoError(t, s.users.Create(ctx, seller))

	card := &entity.ShopCard{
		ID:       gofakeit.UUID(),
		SellerID: seller.ID,
		Title:    gofakeit.ProductName(),
		Price:    money.FromRupees(300),
		Stock:    1,
		Status:   entity.ShopCardStatusActive,
	}
	require.NoError(t, s.shopCards.Create(ctx, card))

	order := &entity.Order{
		OrderID:  "ORDER_" + gofakeit.UUID(),
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		Amount:   money.FromRupees(300),
		Status:   entity.OrderStatusPending,
		ProductDetails: []entity.ProductSnapshot{
			{ProductID: card.ID, Title: card.Title, Price: card.Price, Quantity: 1},
		},
	}
	require.NoError(t, s.orders.Create(ctx, order))

	settlement := entity.Settlement{
		Status:          entity.OrderStatusPaid,
		Credits:         []entity.BalanceCredit{{UserID: seller.ID, Amount: money.FromRupees(300), Reason: "sale"}},
		StockDecrements: []entity.StockDecrement{{ProductID: card.ID, Quantity: 1}},
		At:              now,
	}

	settled, applied, err := s.orders.Settle(ctx, order.OrderID, settlement)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entity.OrderStatusPaid, settled.Status)

	_, applied, err = s.orders.Settle(ctx, order.OrderID, settlement)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.users.GetByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(300), got.Balance)

	updated, err := s.shopCards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, entity.ShopCardStatusSoldOut, updated.Status)
}

func (s *firestoreSuite) TestSettleSkipsPurgedListing() {
	t := s.T()
	ctx := context.Background()

	buyer := fakeUser(entity.RoleUser)
	seller := fakeUser(entity.RoleArtisan)
	require.NoError(t, s.users.Create(ctx, buyer))
	require.NoError(t, s.users.Create(ctx, seller))

	order := &entity.Order{
		OrderID:  "ORDER_" + gofakeit.UUID(),
		BuyerID:  buyer.ID,
		SellerID: seller.ID,
		Amount:   money.FromRupees(120),
		Status:   entity.OrderStatusPending,
	}
	require.NoError(t, s.orders.Create(ctx, order))

	settled, applied, err := s.orders.Settle(ctx, order.OrderID, entity.Settlement{
		Status:          entity.OrderStatusPaid,
		Credits:         []entity.BalanceCredit{{UserID: seller.ID, Amount: money.FromRupees(120), Reason: "sale"}},
		StockDecrements: []entity.StockDecrement{{ProductID: "purged-" + gofakeit.UUID(), Quantity: 1}},
		At:              time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entity.OrderStatusPaid, settled.Status)
}
