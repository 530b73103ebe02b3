package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"artisanmart/internal/adapter/api/handler"
	"artisanmart/internal/adapter/api/middleware"
	"artisanmart/internal/infrastructure/ratelimit"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/response"
)

type Dependencies struct {
	Auth        *middleware.AuthMiddleware
	Admin       *middleware.AdminMiddleware
	AuthLimiter *ratelimit.Limiter
	APILimiter  *ratelimit.Limiter
	WebSocket   *handler.WebSocketHandler
	Environment string
}

func Setup(e *echo.Echo, deps Dependencies) {
	e.HTTPErrorHandler = ErrorHandler

	api := e.Group("/api")
	if deps.APILimiter != nil {
		api.Use(middleware.RateLimit(deps.APILimiter, middleware.ByIP))
	}

	SetupAuthRouter(api, deps.Auth, deps.AuthLimiter)
	SetupUserRouter(api, deps.Auth, deps.Admin)
	SetupShopCardRouter(api, deps.Auth, deps.Admin)
	SetupAuctionRouter(api, deps.Auth, deps.Admin)
	SetupCartRouter(api, deps.Auth)
	SetupPaymentRouter(api, deps.Auth)
	SetupOrderRouter(api, deps.Auth, deps.Admin)
	SetupSubscriptionRouter(api, deps.Auth)
	SetupAnalyticsRouter(api, deps.Auth, deps.Admin)
	SetupUploadRouter(api, deps.Auth)
	SetupResaleRouter(api, deps.Auth)
	SetupStoryRouter(api, deps.Auth)

	SetupWebSocketRouter(e, deps.Auth, deps.WebSocket)
	SetupHealthRouter(e)
	SetupDevRouter(e, deps.Environment)
}

// ErrorHandler renders errors that escape handlers, including route misses,
// in the standard envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.NoContent(he.Code)
			return
		}
	}

	if rerr := response.Error(c, err); rerr != nil {
		logger.Error("Failed to write error response: %v", rerr)
	}
}
