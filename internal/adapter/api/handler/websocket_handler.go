package handler

import (
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "artisanmart/internal/infrastructure/websocket"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	userUseCase *usecase.UserUseCase
	upgrader    gorillaws.Upgrader
}

// NewWebSocketHandler accepts upgrades from the given origins; "*" allows any.
func NewWebSocketHandler(wsManager *ws.Manager, userUseCase *usecase.UserUseCase, origins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		userUseCase: userUseCase,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (h *WebSocketHandler) HandleAuctionSocket(c echo.Context) error {
	uid := currentUID(c)
	if uid == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Warn("Auction socket upgrade failed for %s: %v", uid, err)
		return nil
	}

	client := ws.NewClient(uid, name, conn)
	if !h.wsManager.Add(client) {
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump(h.wsManager)

	return nil
}
