package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanmart/internal/adapter/repository/memory"
	"artisanmart/internal/domain/entity"
	"artisanmart/internal/infrastructure/ratelimit"
)

type stubVerifier map[string]string

func (s stubVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	uid, ok := s[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return uid, nil
}

func echoUID(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	return c.String(http.StatusOK, uid)
}

func serve(h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h(c)
	return rec
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(stubVerifier{"good": "u1"})
	h := m.Authenticate(echoUID)

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{name: "bearer header", target: "/", header: "Bearer good", status: http.StatusOK, body: "u1"},
		{name: "query token outside sockets", target: "/?token=good", status: http.StatusUnauthorized},
		{name: "missing token", target: "/", status: http.StatusUnauthorized},
		{name: "malformed header", target: "/", header: "Token good", status: http.StatusUnauthorized},
		{name: "rejected token", target: "/", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestAuthenticateSocket(t *testing.T) {
	m := NewAuthMiddleware(stubVerifier{"good": "u1"})
	h := m.AuthenticateSocket(echoUID)

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{name: "query token", target: "/ws/auctions?token=good", status: http.StatusOK, body: "u1"},
		{name: "bearer header", target: "/ws/auctions", header: "Bearer good", status: http.StatusOK, body: "u1"},
		{name: "rejected query token", target: "/ws/auctions?token=nope", status: http.StatusUnauthorized},
		{name: "missing token", target: "/ws/auctions", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestOptionalAuth_NeverRejects(t *testing.T) {
	m := NewAuthMiddleware(stubVerifier{"good": "u1"})
	h := m.OptionalAuth(echoUID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nope")
	rec := serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec = serve(h, req)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	repos := memory.New()
	ctx := context.Background()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "buyer", Role: entity.RoleUser}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "maker", Role: entity.RoleArtisan}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "boss", Role: entity.RoleAdmin}))

	m := NewAdminMiddleware(repos.Users)

	run := func(mw echo.MiddlewareFunc, uid string) int {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if uid != "" {
			c.Set("uid", uid)
		}
		_ = mw(echoUID)(c)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(m.AdminOnly, ""))
	assert.Equal(t, http.StatusForbidden, run(m.AdminOnly, "buyer"))
	assert.Equal(t, http.StatusForbidden, run(m.AdminOnly, "maker"))
	assert.Equal(t, http.StatusOK, run(m.AdminOnly, "boss"))

	assert.Equal(t, http.StatusForbidden, run(m.ArtisanOnly, "buyer"))
	assert.Equal(t, http.StatusForbidden, run(m.ArtisanOnly, "ghost"))
	assert.Equal(t, http.StatusOK, run(m.ArtisanOnly, "maker"))
	assert.Equal(t, http.StatusOK, run(m.ArtisanOnly, "boss"))
}

func TestRateLimit_BlocksWithRetryAfter(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	h := RateLimit(limiter, ByIP)(echoUID)

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		return req
	}

	assert.Equal(t, http.StatusOK, serve(h, newReq()).Code)
	assert.Equal(t, http.StatusOK, serve(h, newReq()).Code)

	rec := serve(h, newReq())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.1:5000"
	assert.Equal(t, http.StatusOK, serve(h, other).Code)
}

func TestByUser_PrefersUID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "203.0.113.7", ByUser(c))
	c.Set("uid", "u1")
	assert.Equal(t, "uid:u1", ByUser(c))
}
