package unit_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dangstore-backend/internal/handler"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/service/realtime"
	"dangstore-backend/tests/mocks"
)

func newRealtimeApp(mockAuth *mocks.AuthService, hub *realtime.Hub) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := handler.NewRealtimeHandler(mockAuth, hub)
	app.Get("/ws", h.Upgrade, h.Serve())
	return app
}

func TestRealtimeUpgrade_RejectsUnauthenticated(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		mockAuth := new(mocks.AuthService)
		hub := realtime.NewHub()
		app := newRealtimeApp(mockAuth, hub)

		req := httptest.NewRequest("GET", "/ws", nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		req.Header.Set("Sec-WebSocket-Version", "13")
		req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		mockAuth.AssertNotCalled(t, "ValidateAccessToken")
	})

	t.Run("Invalid Token Never Joins", func(t *testing.T) {
		mockAuth := new(mocks.AuthService)
		hub := realtime.NewHub()
		app := newRealtimeApp(mockAuth, hub)

		mockAuth.On("ValidateAccessToken", "expired-token").Return(nil, errors.New("token is expired")).Once()

		req := httptest.NewRequest("GET", "/ws?token=expired-token", nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		req.Header.Set("Sec-WebSocket-Version", "13")
		req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		mockAuth.AssertExpectations(t)
	})

	t.Run("Plain HTTP Request", func(t *testing.T) {
		mockAuth := new(mocks.AuthService)
		app := newRealtimeApp(mockAuth, realtime.NewHub())

		resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
	})
}
