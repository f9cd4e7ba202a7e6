package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	failed bool
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return errors.New("connection reset")
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestHub_PublishToEmptyGroupIsNoOp(t *testing.T) {
	hub := NewHub()

	delivered := hub.Publish(uuid.New(), EventNewNotification, map[string]string{"id": "x"})

	assert.Equal(t, 0, delivered)
}

func TestHub_MultiDeviceDelivery(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	phone := &fakeConn{}
	laptop := &fakeConn{}

	hub.Join(userID, phone)
	hub.Join(userID, laptop)

	delivered := hub.Publish(userID, EventNewNotification, map[string]string{"id": "n1"})

	assert.Equal(t, 2, delivered)
	assert.Len(t, phone.received(), 1)
	assert.Len(t, laptop.received(), 1)
	assert.Equal(t, EventNewNotification, phone.received()[0].Type)
}

func TestHub_GroupsAreIndependent(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()
	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}

	hub.Join(alice, aliceConn)
	hub.Join(bob, bobConn)

	hub.Publish(alice, EventNewNotification, nil)

	assert.Len(t, aliceConn.received(), 1)
	assert.Empty(t, bobConn.received())
}

func TestHub_LeaveRemovesConnectionAndEmptyGroup(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := &fakeConn{}

	hub.Join(userID, conn)
	assert.Equal(t, 1, hub.ConnectionCount(userID))

	hub.Leave(userID, conn)
	assert.Equal(t, 0, hub.ConnectionCount(userID))

	// Publishing after the last disconnect must not panic or deliver.
	assert.Equal(t, 0, hub.Publish(userID, EventNewNotification, nil))
}

func TestHub_FailedWriteEvictsConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	healthy := &fakeConn{}
	broken := &fakeConn{failed: true}

	hub.Join(userID, healthy)
	hub.Join(userID, broken)

	delivered := hub.Publish(userID, EventNewNotification, nil)

	assert.Equal(t, 1, delivered)
	assert.Len(t, healthy.received(), 1)
	assert.True(t, broken.closed)
	assert.Equal(t, 1, hub.ConnectionCount(userID))
}

// overlapConn records whether two WriteJSON calls ever ran at the same
// time. Websocket connections tolerate only one writer, so any overlap
// would panic in production.
type overlapConn struct {
	writers  atomic.Int32
	overlaps atomic.Int32
	writes   atomic.Int32
}

func (c *overlapConn) WriteJSON(v interface{}) error {
	if c.writers.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	time.Sleep(time.Millisecond)
	c.writers.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestHub_ConcurrentPublishSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := &overlapConn{}
	hub.Join(userID, conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 1, hub.Publish(userID, EventNewNotification, nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), conn.writes.Load())
	assert.Zero(t, conn.overlaps.Load())
}

func TestHub_ConcurrentJoinLeave(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	var wg sync.WaitGroup
	conns := make([]*fakeConn, 50)
	for i := range conns {
		conns[i] = &fakeConn{}
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			hub.Join(userID, c)
		}(conns[i])
	}
	wg.Wait()

	assert.Equal(t, 50, hub.ConnectionCount(userID))
	assert.Equal(t, 50, hub.Publish(userID, EventNewNotification, nil))

	for _, c := range conns {
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			hub.Leave(userID, c)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ConnectionCount(userID))
}
