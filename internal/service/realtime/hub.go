package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// EventNewNotification is pushed whenever a notification is persisted for a
// user with at least one open connection. The push is a hint to refetch, not
// a durable delivery: clients that miss it pick the record up on their next
// poll.
const EventNewNotification = "new_notification"

// Event is the envelope written to every connection in a user's group.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Conn is the subset of a websocket connection the hub needs. Connections
// are admitted only after their token has been verified by the handler.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// member pairs a connection with its write lock. Websocket connections
// allow only one writer at a time, so every write to a given connection
// goes through its member.
type member struct {
	conn Conn
	mu   sync.Mutex
}

func (m *member) write(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn.WriteJSON(event)
}

// Hub owns the mapping from user id to that user's open connections. It is
// constructed once in main and handed to everything that publishes; there is
// no package-level instance.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[Conn]*member
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[Conn]*member),
	}
}

// Join adds a connection to the user's group, creating the group on first
// connection. A user may hold many connections at once (multiple devices).
func (h *Hub) Join(userID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[Conn]*member)
		h.rooms[userID] = room
	}
	room[conn] = &member{conn: conn}
}

// Leave removes a connection from the user's group and drops the group once
// it is empty. Unknown connections are ignored.
func (h *Hub) Leave(userID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

// Publish writes the event to every open connection in the user's group and
// returns the number of successful writes. An empty or absent group is a
// silent no-op. A connection that fails to accept the write is evicted; the
// event is never queued for it.
func (h *Hub) Publish(userID uuid.UUID, event string, data interface{}) int {
	h.mu.RLock()
	members := make([]*member, 0, len(h.rooms[userID]))
	for _, m := range h.rooms[userID] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		return 0
	}

	envelope := Event{Type: event, Data: data}

	delivered := 0
	for _, m := range members {
		if err := m.write(envelope); err != nil {
			log.Printf("Dropping realtime connection for user %s: %v", userID, err)
			h.Leave(userID, m.conn)
			_ = m.conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// ConnectionCount reports how many connections a user currently holds.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
