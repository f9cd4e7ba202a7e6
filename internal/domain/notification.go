package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidNotificationCategory = errors.New("invalid notification category")
	ErrNotificationNotFound        = errors.New("notification not found")
)

type Notification struct {
	ID        uuid.UUID            `json:"id" db:"id"`
	UserID    uuid.UUID            `json:"user_id" db:"user_id"`
	Category  NotificationCategory `json:"category" db:"category"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	OrderID   *uuid.UUID           `json:"order_id,omitempty" db:"order_id"`
	IsRead    bool                 `json:"is_read" db:"is_read"`
	Data      json.RawMessage      `json:"data,omitempty" db:"data"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" db:"updated_at"`
}

type NotificationCategory string

const (
	NotifNewOrder      NotificationCategory = "new-order"
	NotifQuoteReady    NotificationCategory = "quote-ready"
	NotifQuoteAccepted NotificationCategory = "quote-accepted"
	NotifQuoteRejected NotificationCategory = "quote-rejected"
	NotifSystem        NotificationCategory = "system"
)

func (c NotificationCategory) IsValid() bool {
	switch c {
	case NotifNewOrder, NotifQuoteReady, NotifQuoteAccepted, NotifQuoteRejected, NotifSystem:
		return true
	default:
		return false
	}
}

// NotificationStats holds the per-user aggregate counts. Unread plus Read
// always equals Total.
type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Read   int64 `json:"read"`
}
