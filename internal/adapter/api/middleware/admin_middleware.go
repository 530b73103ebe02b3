package middleware

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

func (m *AdminMiddleware) requireRole(next echo.HandlerFunc, message string, allowed ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.IsNotFound(err) {
				return response.Error(c, errors.Forbidden(message, err))
			}
			return response.Error(c, errors.Internal("Failed to verify privileges", err))
		}

		for _, role := range allowed {
			if user.Role == role {
				return next(c)
			}
		}
		return response.Error(c, errors.Forbidden(message, nil))
	}
}

func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, "Admin privileges required", entity.RoleAdmin)
}

func (m *AdminMiddleware) ArtisanOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, "Artisan account required", entity.RoleArtisan, entity.RoleAdmin)
}
