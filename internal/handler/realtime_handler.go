package handler

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/auth"
	"dangstore-backend/internal/service/realtime"
)

// RealtimeHandler upgrades authenticated clients to a WebSocket and
// parks them in the hub so the notification service can push to them.
type RealtimeHandler struct {
	authService auth.Service
	hub         *realtime.Hub
}

func NewRealtimeHandler(authService auth.Service, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		authService: authService,
		hub:         hub,
	}
}

// Upgrade authenticates the request before the protocol switch.
// Browsers cannot set headers on WebSocket dials, so the token is
// also accepted as a query parameter.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return middleware.Unauthorized("Missing access token")
	}

	claims, err := h.authService.ValidateAccessToken(token)
	if err != nil {
		return middleware.Unauthorized("Invalid or expired token")
	}

	c.Locals(middleware.UserIDContextKey, claims.UserID)
	return c.Next()
}

// Serve registers the connection and then drains inbound frames until
// the client goes away. Pushes are fire and forget, so nothing the
// client sends is interpreted.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.UserIDContextKey).(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}

		h.hub.Join(userID, conn)
		defer h.hub.Leave(userID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
