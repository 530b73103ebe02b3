package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"artisanmart/pkg/errors"
	"artisanmart/pkg/response"
)

// TokenVerifier resolves a Firebase ID token to a uid.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// bearerToken reads "Authorization: Bearer <token>".
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}
		return m.verify(c, next, token)
	}
}

// AuthenticateSocket also accepts ?token=, since browsers cannot set headers
// on a websocket upgrade. Only mount it on socket routes.
func (m *AuthMiddleware) AuthenticateSocket(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			if token := c.QueryParam("token"); token != "" {
				return m.verify(c, next, token)
			}
		}
		token, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}
		return m.verify(c, next, token)
	}
}

func (m *AuthMiddleware) verify(c echo.Context, next echo.HandlerFunc, token string) error {
	uid, err := m.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	c.Set("uid", uid)
	return next(c)
}

// OptionalAuth sets uid when a valid token is present and never rejects.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}
		if uid, err := m.verifier.VerifyToken(c.Request().Context(), token); err == nil {
			c.Set("uid", uid)
		}
		return next(c)
	}
}
