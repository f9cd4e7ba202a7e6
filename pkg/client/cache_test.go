package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves notifications from memory and can be told to fail
// mutations, which is how the reconcile path gets exercised.
type fakeAPI struct {
	mu            sync.Mutex
	notifications []Notification
	failMutations bool
	listCalls     int
}

func (f *fakeAPI) ListNotifications(_ context.Context, unreadOnly bool, _, _ int) (*NotificationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	out := make([]Notification, 0, len(f.notifications))
	for _, n := range f.notifications {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return &NotificationPage{
		Data:       out,
		Page:       1,
		PageSize:   20,
		TotalItems: int64(len(out)),
	}, nil
}

func (f *fakeAPI) NotificationStats(context.Context) (*Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &Stats{Total: int64(len(f.notifications))}
	for _, n := range f.notifications {
		if n.IsRead {
			stats.Read++
		} else {
			stats.Unread++
		}
	}
	return stats, nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutations {
		return errors.New("server unavailable")
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeAPI) MarkAllNotificationsRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutations {
		return errors.New("server unavailable")
	}
	for i := range f.notifications {
		f.notifications[i].IsRead = true
	}
	return nil
}

func (f *fakeAPI) DeleteNotification(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutations {
		return errors.New("server unavailable")
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeAPI) DeleteAllNotifications(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutations {
		return errors.New("server unavailable")
	}
	f.notifications = nil
	return nil
}

func seedNotifications(n int) []Notification {
	out := make([]Notification, n)
	for i := range out {
		out[i] = Notification{
			ID:       uuid.New(),
			UserID:   uuid.New(),
			Category: "system",
			Title:    "Aviso",
			Message:  "Mensaje de prueba",
		}
	}
	return out
}

func TestRefreshPopulatesMirror(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(3)}
	cache := NewNotificationCache(api)

	require.NoError(t, cache.Refresh(context.Background()))

	assert.Len(t, cache.Notifications(), 3)
	assert.Equal(t, 3, cache.UnreadCount())
	assert.Equal(t, int64(3), cache.TotalItems())
	assert.Empty(t, cache.Err())
}

func TestMarkReadIsOptimistic(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(2)}
	cache := NewNotificationCache(api)
	require.NoError(t, cache.Refresh(context.Background()))

	target := cache.Notifications()[0].ID
	require.NoError(t, cache.MarkRead(context.Background(), target))

	assert.Equal(t, 1, cache.UnreadCount())
	for _, n := range cache.Notifications() {
		if n.ID == target {
			assert.True(t, n.IsRead)
		}
	}
	assert.Empty(t, cache.Err())
}

func TestMarkAllReadClearsUnreadCount(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(3)}
	cache := NewNotificationCache(api)
	require.NoError(t, cache.Refresh(context.Background()))
	require.Equal(t, 3, cache.UnreadCount())

	require.NoError(t, cache.MarkAllRead(context.Background()))

	assert.Equal(t, 0, cache.UnreadCount())
	for _, n := range cache.Notifications() {
		assert.True(t, n.IsRead)
	}
	assert.Empty(t, cache.Err())
}

func TestMarkReadFailureReconcilesFromServer(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(2)}
	cache := NewNotificationCache(api)
	require.NoError(t, cache.Refresh(context.Background()))

	api.mu.Lock()
	api.failMutations = true
	api.mu.Unlock()

	target := cache.Notifications()[0].ID
	err := cache.MarkRead(context.Background(), target)
	require.Error(t, err)

	// The optimistic flip must be rolled back to the server's truth.
	assert.Equal(t, 2, cache.UnreadCount())
	assert.NotEmpty(t, cache.Err())
}

func TestErrorClearsAfterDelay(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(1)}
	cache := NewNotificationCache(api, WithErrorClearDelay(20*time.Millisecond))
	require.NoError(t, cache.Refresh(context.Background()))

	api.mu.Lock()
	api.failMutations = true
	api.mu.Unlock()

	_ = cache.MarkAllRead(context.Background())
	require.NotEmpty(t, cache.Err())

	assert.Eventually(t, func() bool {
		return cache.Err() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestDeleteRemovesLocallyAndRemotely(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(3)}
	cache := NewNotificationCache(api)
	require.NoError(t, cache.Refresh(context.Background()))

	target := cache.Notifications()[1].ID
	require.NoError(t, cache.Delete(context.Background(), target))

	assert.Len(t, cache.Notifications(), 2)
	assert.Equal(t, int64(2), cache.TotalItems())
	for _, n := range cache.Notifications() {
		assert.NotEqual(t, target, n.ID)
	}
}

func TestDeleteAllEmptiesMirror(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(4)}
	cache := NewNotificationCache(api)
	require.NoError(t, cache.Refresh(context.Background()))

	require.NoError(t, cache.DeleteAll(context.Background()))

	assert.Empty(t, cache.Notifications())
	assert.Equal(t, 0, cache.UnreadCount())
	assert.Equal(t, int64(0), cache.TotalItems())
}

func TestOnChangeFires(t *testing.T) {
	api := &fakeAPI{notifications: seedNotifications(1)}

	var mu sync.Mutex
	changes := 0
	cache := NewNotificationCache(api, WithOnChange(func() {
		mu.Lock()
		changes++
		mu.Unlock()
	}))

	require.NoError(t, cache.Refresh(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, changes, 0)
}
