package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const eventNewNotification = "new_notification"

type event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Listener keeps a WebSocket open to the notification endpoint and
// refreshes the cache whenever the server pushes. A push is only a
// hint that something changed; the refetch is what updates the mirror,
// so a dropped frame costs freshness but never correctness.
type Listener struct {
	wsURL string
	cache *NotificationCache

	dialer     *websocket.Dialer
	minBackoff time.Duration
	maxBackoff time.Duration
}

type ListenerOption func(*Listener)

func WithBackoff(min, max time.Duration) ListenerOption {
	return func(l *Listener) {
		if min > 0 {
			l.minBackoff = min
		}
		if max >= min {
			l.maxBackoff = max
		}
	}
}

func WithDialer(d *websocket.Dialer) ListenerOption {
	return func(l *Listener) {
		l.dialer = d
	}
}

// NewListener takes the full WebSocket URL including the token query
// parameter, e.g. "wss://api.dangstore.mx/api/v1/ws?token=...".
func NewListener(wsURL string, cache *NotificationCache, opts ...ListenerOption) *Listener {
	l := &Listener{
		wsURL:      wsURL,
		cache:      cache,
		dialer:     websocket.DefaultDialer,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run blocks until the context is cancelled, reconnecting with
// exponential backoff. Every successful connect starts with a refresh
// to pick up anything pushed while the socket was down.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.minBackoff

	for {
		conn, _, err := l.dialer.DialContext(ctx, l.wsURL, nil)
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > l.maxBackoff {
				backoff = l.maxBackoff
			}
			continue
		}

		backoff = l.minBackoff
		_ = l.cache.Refresh(ctx)

		if err := l.readLoop(ctx, conn); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

func (l *Listener) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}

		if ev.Type == eventNewNotification {
			_ = l.cache.Refresh(ctx)
		}
	}
}
