package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/internal/domain/service"
	"artisanmart/internal/infrastructure/llm"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

const (
	ModuleSalesForecast    = "sales-forecast"
	ModuleMarketTrends     = "market-trends"
	ModulePricing          = "pricing"
	ModuleCustomerInsights = "customer-insights"
	ModuleInventory        = "inventory"
	ModuleDashboard        = "dashboard"
)

const llmTimeout = 30 * time.Second

// AnalyticsUseCase produces the analytics reports. generator may be nil, in
// which case every report uses the templated fallback.
type AnalyticsUseCase struct {
	orderRepo    repository.OrderRepository
	shopCardRepo repository.ShopCardRepository
	generator    service.TextGenerator
	cache        Cache
	ttl          time.Duration
	now          func() time.Time
}

func NewAnalyticsUseCase(
	orderRepo repository.OrderRepository,
	shopCardRepo repository.ShopCardRepository,
	generator service.TextGenerator,
	cache Cache,
	ttl time.Duration,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		orderRepo:    orderRepo,
		shopCardRepo: shopCardRepo,
		generator:    generator,
		cache:        cache,
		ttl:          ttl,
		now:          time.Now,
	}
}

type sellerData struct {
	orders   []*entity.Order
	listings []*entity.ShopCard
}

func (d *sellerData) revenue() money.Amount {
	return lo.SumBy(d.orders, func(o *entity.Order) money.Amount { return o.SellerPayout() })
}

func (d *sellerData) unitsSold(productID string) int {
	units := 0
	for _, o := range d.orders {
		for _, p := range o.ProductDetails {
			if p.ProductID == productID {
				units += max(p.Quantity, 1)
			}
		}
	}
	return units
}

func (d *sellerData) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paid orders: %d. Revenue: INR %s. Active listings: %d.\n", len(d.orders), d.revenue(), len(d.listings))
	for _, l := range lo.Slice(d.listings, 0, 20) {
		fmt.Fprintf(&b, "- %s (%s) price INR %s, stock %d, views %d, sold %d\n", l.Title, l.Category, l.Price, l.Stock, l.Views, l.SoldCount)
	}
	return b.String()
}

// loadSellerData reads paid orders and listings concurrently.
func (uc *AnalyticsUseCase) loadSellerData(ctx context.Context, sellerID string) (*sellerData, error) {
	data := &sellerData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, _, err := uc.orderRepo.List(gctx, entity.OrderFilter{SellerID: sellerID, Status: entity.OrderStatusPaid})
		data.orders = orders
		return err
	})
	g.Go(func() error {
		listings, _, err := uc.shopCardRepo.List(gctx, entity.ShopCardFilter{SellerID: sellerID})
		data.listings = listings
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func cacheKey(module, sellerID string, extra ...string) string {
	parts := append([]string{"analytics", module, sellerID}, extra...)
	return strings.Join(parts, ":")
}

// build serves a cached report when present, otherwise asks the model and
// falls back to templated data. Fallback reports are not cached.
func (uc *AnalyticsUseCase) build(
	ctx context.Context,
	module, key string,
	prompt func() string,
	fallback func() map[string]interface{},
) (*entity.AnalyticsReport, error) {
	if raw, found, err := uc.cache.Get(ctx, key); err != nil {
		logger.Debug("Analytics cache read failed for %s: %v", key, err)
	} else if found {
		var cached entity.AnalyticsReport
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	report := &entity.AnalyticsReport{Module: module, GeneratedAt: uc.now()}

	data, err := uc.generate(ctx, prompt())
	if err != nil {
		logger.With("module", module, "error", err).Warn("analytics falling back to template")
		report.Source = entity.AnalyticsSourceFallback
		report.Data = fallback()
		return report, nil
	}

	report.Source = entity.AnalyticsSourceAI
	report.Data = data

	if raw, err := json.Marshal(report); err == nil {
		if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
			logger.Debug("Analytics cache write failed for %s: %v", key, err)
		}
	}
	return report, nil
}

var errAnalyticsDisabled = fmt.Errorf("analytics model disabled")

func (uc *AnalyticsUseCase) generate(ctx context.Context, prompt string) (map[string]interface{}, error) {
	if uc.generator == nil {
		return nil, errAnalyticsDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	completion, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	raw, err := llm.ExtractJSON(completion)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	return data, nil
}

func (uc *AnalyticsUseCase) SalesForecast(ctx context.Context, sellerID string) (*entity.AnalyticsReport, error) {
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	prompt := func() string {
		return "Act as SAP Analytics Cloud predictive planning for an Indian handicraft seller.\n" +
			data.summary() +
			`Forecast revenue for the next 3 months. Reply with JSON only: {"forecast":[{"month":"","revenue":0,"confidence":0}],"trend":"up|flat|down","drivers":[""],"recommendation":""}`
	}
	fallback := func() map[string]interface{} {
		base := data.revenue().Float64()
		if base == 0 {
			base = gofakeit.Float64Range(2000, 8000)
		}
		start := uc.now()
		forecast := make([]map[string]interface{}, 3)
		for i := range forecast {
			growth := gofakeit.Float64Range(0.95, 1.2)
			base *= growth
			forecast[i] = map[string]interface{}{
				"month":      start.AddDate(0, i+1, 0).Format("2006-01"),
				"revenue":    money.FromFloat(base),
				"confidence": gofakeit.Number(65, 90),
			}
		}
		return map[string]interface{}{
			"forecast":       forecast,
			"trend":          gofakeit.RandomString([]string{"up", "flat", "up"}),
			"drivers":        []string{"Festive season demand", "Repeat buyers", "Listing visibility"},
			"recommendation": "Keep best sellers in stock ahead of the festive months.",
		}
	}
	return uc.build(ctx, ModuleSalesForecast, cacheKey(ModuleSalesForecast, sellerID), prompt, fallback)
}

func (uc *AnalyticsUseCase) MarketTrends(ctx context.Context, sellerID, category string) (*entity.AnalyticsReport, error) {
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = "handicrafts"
	}

	prompt := func() string {
		return "Act as SAP Business Technology Platform market intelligence for the Indian " + category + " category.\n" +
			data.summary() +
			`Reply with JSON only: {"category":"","trendingStyles":[""],"demandIndex":0,"seasonality":"","opportunities":[""],"risks":[""]}`
	}
	fallback := func() map[string]interface{} {
		return map[string]interface{}{
			"category":       category,
			"trendingStyles": []string{"Sustainable materials", "Personalised gifts", "Regional motifs"},
			"demandIndex":    gofakeit.Number(55, 95),
			"seasonality":    gofakeit.RandomString([]string{"Peaks around Diwali and weddings", "Steady with a year-end spike"}),
			"opportunities":  []string{"Bundle smaller items as gift sets", "Tell the maker's story in listings"},
			"risks":          []string{"Price competition from mass-produced goods"},
		}
	}
	return uc.build(ctx, ModuleMarketTrends, cacheKey(ModuleMarketTrends, sellerID, strings.ToLower(category)), prompt, fallback)
}

func (uc *AnalyticsUseCase) Pricing(ctx context.Context, sellerID, productID string) (*entity.AnalyticsReport, error) {
	card, err := uc.shopCardRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", err)
		}
		return nil, err
	}
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	sold := data.unitsSold(productID)

	prompt := func() string {
		return "Act as SAP Analytics Cloud price optimisation.\n" +
			fmt.Sprintf("Product: %s (%s). Current price INR %s. Views %d. Units sold %d. Stock %d.\n",
				card.Title, card.Category, card.Price, card.Views, sold, card.Stock) +
			`Reply with JSON only: {"currentPrice":0,"recommendedPrice":0,"minPrice":0,"maxPrice":0,"rationale":""}`
	}
	fallback := func() map[string]interface{} {
		factor := gofakeit.Float64Range(0.95, 1.15)
		return map[string]interface{}{
			"currentPrice":     card.Price,
			"recommendedPrice": money.FromFloat(card.Price.Float64() * factor),
			"minPrice":         money.FromFloat(card.Price.Float64() * 0.85),
			"maxPrice":         money.FromFloat(card.Price.Float64() * 1.25),
			"rationale":        "Based on views and sales of similar handmade items.",
		}
	}
	return uc.build(ctx, ModulePricing, cacheKey(ModulePricing, sellerID, productID), prompt, fallback)
}

func (uc *AnalyticsUseCase) CustomerInsights(ctx context.Context, sellerID string) (*entity.AnalyticsReport, error) {
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	buyers := lo.Uniq(lo.Map(data.orders, func(o *entity.Order, _ int) string { return o.BuyerID }))

	prompt := func() string {
		return "Act as SAP Customer Data Cloud segmentation.\n" +
			data.summary() +
			fmt.Sprintf("Distinct buyers: %d.\n", len(buyers)) +
			`Reply with JSON only: {"segments":[{"name":"","share":0,"description":""}],"repeatRate":0,"recommendations":[""]}`
	}
	fallback := func() map[string]interface{} {
		first := gofakeit.Number(35, 55)
		second := gofakeit.Number(20, 100-first-10)
		return map[string]interface{}{
			"segments": []map[string]interface{}{
				{"name": "Gift shoppers", "share": first, "description": "Buy during festivals and occasions"},
				{"name": "Collectors", "share": second, "description": "Return for new pieces from the same artisan"},
				{"name": "First-time buyers", "share": 100 - first - second, "description": "Discovered the shop through search"},
			},
			"distinctBuyers":  len(buyers),
			"repeatRate":      gofakeit.Number(10, 40),
			"recommendations": []string{"Follow up with buyers after delivery", "Offer gift wrapping"},
		}
	}
	return uc.build(ctx, ModuleCustomerInsights, cacheKey(ModuleCustomerInsights, sellerID), prompt, fallback)
}

func (uc *AnalyticsUseCase) Inventory(ctx context.Context, sellerID string) (*entity.AnalyticsReport, error) {
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	prompt := func() string {
		return "Act as SAP Integrated Business Planning inventory optimisation.\n" +
			data.summary() +
			`Reply with JSON only: {"restock":[{"productId":"","title":"","currentStock":0,"suggestedStock":0,"reason":""}],"overstocked":[""]}`
	}
	fallback := func() map[string]interface{} {
		restock := make([]map[string]interface{}, 0)
		for _, l := range data.listings {
			velocity := data.unitsSold(l.ID)
			if l.Stock > velocity && l.Stock > 2 {
				continue
			}
			restock = append(restock, map[string]interface{}{
				"productId":      l.ID,
				"title":          l.Title,
				"currentStock":   l.Stock,
				"suggestedStock": max(velocity*2, 5),
				"reason":         "Stock is low relative to recent sales",
			})
		}
		return map[string]interface{}{
			"restock":     restock,
			"overstocked": []string{},
		}
	}
	return uc.build(ctx, ModuleInventory, cacheKey(ModuleInventory, sellerID), prompt, fallback)
}

// Dashboard computes the KPIs locally and only asks the model for a summary.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, sellerID string) (*entity.AnalyticsReport, error) {
	data, err := uc.loadSellerData(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	revenue := data.revenue()
	aov := money.Zero
	if len(data.orders) > 0 {
		aov = revenue / money.Amount(len(data.orders))
	}
	kpis := map[string]interface{}{
		"revenue":           revenue,
		"orders":            len(data.orders),
		"averageOrderValue": aov,
		"activeListings":    lo.CountBy(data.listings, func(l *entity.ShopCard) bool { return l.Status == entity.ShopCardStatusActive }),
		"totalViews":        lo.SumBy(data.listings, func(l *entity.ShopCard) int { return l.Views }),
	}

	prompt := func() string {
		return "Act as an SAP Analytics Cloud story for an artisan's shop.\n" +
			data.summary() +
			`Reply with JSON only: {"summary":"","highlights":[""]}`
	}
	fallback := func() map[string]interface{} {
		return map[string]interface{}{
			"summary":    fmt.Sprintf("You earned INR %s from %d orders.", revenue, len(data.orders)),
			"highlights": []string{"Keep listings fresh with new photos"},
		}
	}

	report, err := uc.build(ctx, ModuleDashboard, cacheKey(ModuleDashboard, sellerID), prompt, fallback)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]interface{}, len(report.Data)+len(kpis))
	for k, v := range report.Data {
		merged[k] = v
	}
	for k, v := range kpis {
		merged[k] = v
	}
	out := *report
	out.Data = merged
	return &out, nil
}
