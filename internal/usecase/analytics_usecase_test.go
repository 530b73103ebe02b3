package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/domain/entity"
	"artisanmart/pkg/money"
)

type stubGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.reply, g.err
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	return nil
}

func TestAnalyticsUseCase_FallbackWithoutModel(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, entity.RoleArtisan)
	f.shopCard(t, seller, money.FromRupees(400), 1)

	uc := NewAnalyticsUseCase(f.repos.Orders, f.repos.ShopCards, nil, &mapCache{}, time.Minute)

	reports := map[string]func() (*entity.AnalyticsReport, error){
		ModuleSalesForecast: func() (*entity.AnalyticsReport, error) { return uc.SalesForecast(context.Background(), seller.ID) },
		ModuleMarketTrends: func() (*entity.AnalyticsReport, error) {
			return uc.MarketTrends(context.Background(), seller.ID, "textiles")
		},
		ModuleCustomerInsights: func() (*entity.AnalyticsReport, error) { return uc.CustomerInsights(context.Background(), seller.ID) },
		ModuleInventory:        func() (*entity.AnalyticsReport, error) { return uc.Inventory(context.Background(), seller.ID) },
	}
	for module, run := range reports {
		t.Run(module, func(t *testing.T) {
			report, err := run()
			require.NoError(t, err)
			assert.Equal(t, module, report.Module)
			assert.Equal(t, entity.AnalyticsSourceFallback, report.Source)
			assert.NotEmpty(t, report.Data)
		})
	}
}

func TestAnalyticsUseCase_ModelResponseIsCached(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, entity.RoleArtisan)
	gen := &stubGenerator{reply: "Here you go:\n```json\n{\"trend\":\"up\",\"forecast\":[]}\n```"}
	uc := NewAnalyticsUseCase(f.repos.Orders, f.repos.ShopCards, gen, &mapCache{}, time.Minute)

	first, err := uc.SalesForecast(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AnalyticsSourceAI, first.Source)
	assert.Equal(t, "up", first.Data["trend"])

	second, err := uc.SalesForecast(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AnalyticsSourceAI, second.Source)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyticsUseCase_ModelErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, entity.RoleArtisan)
	gen := &stubGenerator{err: errors.New("rate limited")}
	uc := NewAnalyticsUseCase(f.repos.Orders, f.repos.ShopCards, gen, &mapCache{}, time.Minute)

	report, err := uc.MarketTrends(context.Background(), seller.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.AnalyticsSourceFallback, report.Source)
	assert.Equal(t, "handicrafts", report.Data["category"])

	gen.err = nil
	gen.reply = "not json at all"
	report, err = uc.MarketTrends(context.Background(), seller.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.AnalyticsSourceFallback, report.Source)
	assert.Equal(t, 2, gen.calls)
}

func TestAnalyticsUseCase_DashboardKPIs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, entity.RoleUser)
	seller := f.user(t, entity.RoleArtisan)

	// each order sells out its own single-stock card; only the unpaid one stays listed
	for _, amount := range []money.Amount{money.FromRupees(300), money.FromRupees(500)} {
		res := regularOrder(t, f, buyer, seller, amount)
		f.gateway.SetStatus(res.OrderID, "PAID", "upi")
		_, err := f.payment.VerifyPayment(ctx, buyer.ID, res.OrderID)
		require.NoError(t, err)
	}
	regularOrder(t, f, buyer, seller, money.FromRupees(999))

	uc := NewAnalyticsUseCase(f.repos.Orders, f.repos.ShopCards, nil, &mapCache{}, time.Minute)
	report, err := uc.Dashboard(ctx, seller.ID)
	require.NoError(t, err)

	assert.Equal(t, money.FromRupees(800), report.Data["revenue"])
	assert.Equal(t, 2, report.Data["orders"])
	assert.Equal(t, money.FromRupees(400), report.Data["averageOrderValue"])
	assert.Equal(t, 1, report.Data["activeListings"])
	assert.NotEmpty(t, report.Data["summary"])
}

func TestAnalyticsUseCase_PricingUnknownProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, entity.RoleArtisan)
	uc := NewAnalyticsUseCase(f.repos.Orders, f.repos.ShopCards, nil, &mapCache{}, time.Minute)

	_, err := uc.Pricing(context.Background(), seller.ID, "missing")
	requireAppError(t, err, 404)
}
