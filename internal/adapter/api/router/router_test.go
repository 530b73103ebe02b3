package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/adapter/api"
	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
	"artisanmart/internal/adapter/api/router"
	"artisanmart/internal/adapter/repository/memory"
	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/service"
	"artisanmart/internal/infrastructure/cache"
	"artisanmart/internal/infrastructure/events"
	"artisanmart/internal/infrastructure/mail"
	"artisanmart/internal/infrastructure/qrcode"
	"artisanmart/internal/infrastructure/ratelimit"
	ws "artisanmart/internal/infrastructure/websocket"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/money"
)

// uidVerifier accepts any non-empty token and treats it as the uid.
type uidVerifier struct{}

func (uidVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if token == "" || token == "bad" {
		return "", fmt.Errorf("invalid token")
	}
	return token, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type testServer struct {
	e     *echo.Echo
	repos *memory.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := memory.New()
	payments := usecase.NewPaymentUseCase(
		repos.Orders,
		repos.Users,
		repos.ShopCards,
		repos.Resales,
		service.NewSimplifiedPaymentService("test-secret"),
		events.Nop{},
		mail.Nop{},
		qrcode.NewEncoder(),
		usecase.PaymentSettings{
			PlatformFeePercent: decimal.Zero,
			AdminBonus:         money.FromRupees(100),
			ReturnURL:          "http://localhost:3000/payment/status?order_id={order_id}",
			OrderExpiry:        30 * time.Minute,
		},
	)
	users := usecase.NewUserUseCase(repos.Users)

	handler.Setup(handler.UseCases{
		Auth:         usecase.NewAuthUseCase(repos.Users, nil),
		User:         users,
		ShopCard:     usecase.NewShopCardUseCase(repos.ShopCards, repos.Users),
		Auction:      usecase.NewAuctionUseCase(repos.Auctions, repos.Users, ws.NewManager(), events.Nop{}),
		Cart:         usecase.NewCartUseCase(repos.Carts, repos.ShopCards, payments),
		Payment:      payments,
		Order:        usecase.NewOrderUseCase(repos.Orders, repos.Users),
		Subscription: usecase.NewSubscriptionUseCase(payments, users),
		Analytics:    usecase.NewAnalyticsUseCase(repos.Orders, repos.ShopCards, nil, cache.Nop{}, time.Minute),
		Upload:       usecase.NewUploadUseCase(nil),
		Resale:       usecase.NewResaleUseCase(repos.Resales, repos.Users),
		Story:        usecase.NewStoryUseCase(repos.Stories, repos.Users),
	})
	handler.SetupHealthHandler("memory", map[string]handler.Probe{
		"store": func(context.Context) error { return nil },
	})

	e := echo.New()
	e.Validator = api.NewValidator()
	router.Setup(e, router.Dependencies{
		Auth:        middleware.NewAuthMiddleware(uidVerifier{}),
		Admin:       middleware.NewAdminMiddleware(repos.Users),
		AuthLimiter: ratelimit.New(100, time.Minute),
		Environment: "test",
	})

	return &testServer{e: e, repos: repos}
}

func (s *testServer) user(t *testing.T, id, role string) {
	t.Helper()
	require.NoError(t, s.repos.Users.Create(context.Background(), &entity.User{
		ID:    id,
		Email: id + "@example.com",
		Name:  strings.ToUpper(id[:1]) + id[1:],
		Role:  role,
	}))
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")

	rec, _ = s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)
}

func TestUnknownRouteReturnsEndpointNotFound(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "ENDPOINT_NOT_FOUND", env.Code)
	assert.Equal(t, "Endpoint not found", env.Error)
}

func TestGetShopCard_UnknownIDIsProductNotFound(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/shopcards/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", env.Error)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/cart", "bad", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateShopCard_ArtisanOnly(t *testing.T) {
	s := newTestServer(t)
	s.user(t, "buyer", entity.RoleUser)
	s.user(t, "maker", entity.RoleArtisan)

	body := `{"title":"Blue pottery vase","price":"499.00","category":"pottery","stock":3}`

	rec, env := s.do(t, http.MethodPost, "/api/shopcards", "buyer", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Code)

	rec, env = s.do(t, http.MethodPost, "/api/shopcards", "maker", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var card struct {
		ID       string `json:"id"`
		SellerID string `json:"sellerId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))
	assert.Equal(t, "maker", card.SellerID)

	rec, _ = s.do(t, http.MethodGet, "/api/shopcards/"+card.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Blue pottery vase")
}

func TestValidationErrorsUseEnvelope(t *testing.T) {
	s := newTestServer(t)
	s.user(t, "buyer", entity.RoleUser)

	rec, env := s.do(t, http.MethodPost, "/api/cart/items", "buyer", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "productid is required", env.Error)
}

func TestCreateOrder_SubscriptionAmountMustMatchPlan(t *testing.T) {
	s := newTestServer(t)
	s.user(t, "buyer", entity.RoleUser)

	order := `{"customerName":"Asha","customerEmail":"asha@example.com","customerPhone":"9876543210",` +
		`"amount":%s,"isSubscription":true,"subscriptionType":"monthly"}`

	rec, env := s.do(t, http.MethodPost, "/api/payment/create-order", "buyer", fmt.Sprintf(order, "150"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)

	rec, env = s.do(t, http.MethodPost, "/api/payment/create-order", "buyer", fmt.Sprintf(order, "200"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		OrderID     string `json:"orderId"`
		PaymentLink string `json:"paymentLink"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, strings.HasPrefix(created.OrderID, "ORDER_"))

	rec, _ = s.do(t, http.MethodGet, "/api/payment/"+created.OrderID+"/qr", "buyer", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestSubscriptionPlansArePublic(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/subscription/plans", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "monthly")
	assert.Contains(t, string(env.Data), "yearly")
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	s := newTestServer(t)
	s.user(t, "buyer", entity.RoleUser)
	s.user(t, "boss", entity.RoleAdmin)

	rec, _ := s.do(t, http.MethodGet, "/api/orders/admin", "buyer", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/orders/admin", "boss", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestDevTokenRouteHiddenInProduction(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = router.ErrorHandler
	router.SetupDevRouter(e, "production")

	req := httptest.NewRequest(http.MethodGet, "/_dev/token/someone", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ENDPOINT_NOT_FOUND")
}
