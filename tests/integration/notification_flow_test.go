//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL = "http://localhost:8080/api/v1"
	wsURL   = "ws://localhost:8080/api/v1/ws"
)

// A dial without a valid token must fail the handshake before the
// connection joins any group.
func TestRealtimeRejectsUnauthenticatedDial(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.Nil(t, conn)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=not-a-jwt", nil)
		require.Error(t, err)
		require.Nil(t, conn)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// The test assumes a running server with a verified admin account
// (set ADMIN_EMAIL / ADMIN_PASSWORD) and a verified customer account.
// Run `docker-compose up` first.
func TestNotificationFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	login := func(t *testing.T, email, password string) string {
		payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
		resp, err := client.Post(baseURL+"/auth/login", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return result["access_token"].(string)
	}

	adminToken := login(t, envOr("ADMIN_EMAIL", "admin@dangstore.mx"), envOr("ADMIN_PASSWORD", "admin-password"))
	customerToken := login(t, envOr("CUSTOMER_EMAIL", "cliente@example.com"), envOr("CUSTOMER_PASSWORD", "customer-password"))

	// Admin listens on the WebSocket before the customer orders.
	dialURL := wsURL + "?token=" + url.QueryEscape(adminToken)
	conn, _, err := websocket.DefaultDialer.Dial(dialURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	received := make(chan map[string]interface{}, 1)
	go func() {
		var ev map[string]interface{}
		if err := conn.ReadJSON(&ev); err == nil {
			received <- ev
		}
	}()

	var orderID string

	t.Run("Customer Creates Order", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]interface{}{
			"items": []map[string]interface{}{
				{"design_name": "Llavero personalizado", "quantity": 1},
			},
		})
		req, _ := http.NewRequest("POST", baseURL+"/orders/", bytes.NewBuffer(payload))
		req.Header.Set("Authorization", "Bearer "+customerToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var order map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
		orderID = order["id"].(string)
		assert.Equal(t, "pending", order["status"])
	})

	t.Run("Admin Receives Push", func(t *testing.T) {
		select {
		case ev := <-received:
			assert.Equal(t, "new_notification", ev["type"])
		case <-time.After(5 * time.Second):
			t.Fatal("no push received within 5s")
		}
	})

	t.Run("Admin Sees Notification In Store", func(t *testing.T) {
		req, _ := http.NewRequest("GET", baseURL+"/notifications/?unread_only=true", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.GreaterOrEqual(t, len(page["data"].([]interface{})), 1)
	})

	t.Run("Admin Quotes And Customer Is Notified", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]interface{}{"price_cents": 45000})
		req, _ := http.NewRequest("POST", fmt.Sprintf("%s/admin/orders/%s/quote", baseURL, orderID), bytes.NewBuffer(payload))
		req.Header.Set("Authorization", "Bearer "+adminToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// The customer's store now has the quote-ready notification.
		req, _ = http.NewRequest("GET", baseURL+"/notifications/stats", nil)
		req.Header.Set("Authorization", "Bearer "+customerToken)

		resp, err = client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats struct {
			Total  int64 `json:"total"`
			Unread int64 `json:"unread"`
			Read   int64 `json:"read"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.GreaterOrEqual(t, stats.Unread, int64(1))
		assert.Equal(t, stats.Total, stats.Unread+stats.Read)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
