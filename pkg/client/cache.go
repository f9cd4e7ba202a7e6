package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// API is the slice of the Client the cache needs. It is an interface
// so tests can drive the cache against a fake server.
type API interface {
	ListNotifications(ctx context.Context, unreadOnly bool, page, pageSize int) (*NotificationPage, error)
	NotificationStats(ctx context.Context) (*Stats, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id uuid.UUID) error
	DeleteAllNotifications(ctx context.Context) error
}

const defaultErrorClearDelay = 5 * time.Second

// NotificationCache keeps a local mirror of the user's most recent
// notifications. Mutations apply to the mirror immediately and are
// sent to the server in the same call; when the server disagrees the
// mirror is reconciled by refetching, never by guessing. The unread
// count is always recomputed from the mirror so it cannot drift.
type NotificationCache struct {
	api      API
	pageSize int

	mu         sync.Mutex
	items      []Notification
	totalItems int64
	lastErr    string
	errTimer   *time.Timer

	errClearDelay time.Duration
	onChange      func()
}

type CacheOption func(*NotificationCache)

func WithPageSize(n int) CacheOption {
	return func(c *NotificationCache) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithErrorClearDelay shortens the error banner timeout in tests.
func WithErrorClearDelay(d time.Duration) CacheOption {
	return func(c *NotificationCache) {
		if d > 0 {
			c.errClearDelay = d
		}
	}
}

// WithOnChange registers a callback fired after every mirror change,
// including the error banner clearing. UIs use it to re-render.
func WithOnChange(fn func()) CacheOption {
	return func(c *NotificationCache) {
		c.onChange = fn
	}
}

func NewNotificationCache(api API, opts ...CacheOption) *NotificationCache {
	c := &NotificationCache{
		api:           api,
		pageSize:      20,
		errClearDelay: defaultErrorClearDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh replaces the mirror with the server's current state. Pushes
// arriving over WebSocket are hints to call this, not deltas.
func (c *NotificationCache) Refresh(ctx context.Context) error {
	page, err := c.api.ListNotifications(ctx, false, 1, c.pageSize)
	if err != nil {
		c.setError("No se pudieron cargar las notificaciones")
		return err
	}

	c.mu.Lock()
	c.items = page.Data
	c.totalItems = page.TotalItems
	c.mu.Unlock()

	c.notify()
	return nil
}

// Notifications returns a copy of the mirror, newest first.
func (c *NotificationCache) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount is recomputed from the mirror on every call.
func (c *NotificationCache) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

func (c *NotificationCache) TotalItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItems
}

// Err returns the current error banner, or "" when there is none.
func (c *NotificationCache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *NotificationCache) MarkRead(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsRead = true
			break
		}
	}
	c.mu.Unlock()
	c.notify()

	if err := c.api.MarkNotificationRead(ctx, id); err != nil {
		c.setError("No se pudo marcar como leída")
		_ = c.Refresh(ctx)
		return err
	}
	return nil
}

func (c *NotificationCache) MarkAllRead(ctx context.Context) error {
	c.mu.Lock()
	for i := range c.items {
		c.items[i].IsRead = true
	}
	c.mu.Unlock()
	c.notify()

	if err := c.api.MarkAllNotificationsRead(ctx); err != nil {
		c.setError("No se pudieron marcar como leídas")
		_ = c.Refresh(ctx)
		return err
	}
	return nil
}

func (c *NotificationCache) Delete(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if c.totalItems > 0 {
				c.totalItems--
			}
			break
		}
	}
	c.mu.Unlock()
	c.notify()

	if err := c.api.DeleteNotification(ctx, id); err != nil {
		c.setError("No se pudo eliminar la notificación")
		_ = c.Refresh(ctx)
		return err
	}
	return nil
}

func (c *NotificationCache) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	c.items = nil
	c.totalItems = 0
	c.mu.Unlock()
	c.notify()

	if err := c.api.DeleteAllNotifications(ctx); err != nil {
		c.setError("No se pudieron eliminar las notificaciones")
		_ = c.Refresh(ctx)
		return err
	}
	return nil
}

func (c *NotificationCache) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	if c.errTimer != nil {
		c.errTimer.Stop()
	}
	c.errTimer = time.AfterFunc(c.errClearDelay, func() {
		c.mu.Lock()
		c.lastErr = ""
		c.mu.Unlock()
		c.notify()
	})
	c.mu.Unlock()

	c.notify()
}

func (c *NotificationCache) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
