package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderTransition = errors.New("order status does not allow this transition")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
)

type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	CustomerID       uuid.UUID   `json:"customer_id" db:"customer_id"`
	Status           OrderStatus `json:"status" db:"status"`
	CustomerNote     *string     `json:"customer_note,omitempty" db:"customer_note"`
	AdminNote        *string     `json:"admin_note,omitempty" db:"admin_note"`
	QuotedPriceCents *int64      `json:"quoted_price_cents,omitempty" db:"quoted_price_cents"`
	QuotedBy         *uuid.UUID  `json:"quoted_by,omitempty" db:"quoted_by"`
	QuotedAt         *time.Time  `json:"quoted_at,omitempty" db:"quoted_at"`
	DecidedAt        *time.Time  `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`

	Items    []OrderItem `json:"items,omitempty" db:"-"`
	Customer *User       `json:"customer,omitempty" db:"-"`
}

type OrderItem struct {
	ID            uuid.UUID  `json:"id" db:"item_id"`
	OrderID       uuid.UUID  `json:"order_id" db:"order_id"`
	ProductID     *uuid.UUID `json:"product_id,omitempty" db:"product_id"`
	DesignName    *string    `json:"design_name,omitempty" db:"design_name"`
	DesignMediaID *uuid.UUID `json:"design_media_id,omitempty" db:"design_media_id"`
	Quantity      int        `json:"quantity" db:"quantity"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderQuoted    OrderStatus = "quoted"
	OrderAccepted  OrderStatus = "accepted"
	OrderRejected  OrderStatus = "rejected"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderQuoted, OrderAccepted, OrderRejected, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the quoting state machine: pending orders get
// quoted by an admin, the customer accepts or rejects the quote, and
// accepted orders are completed (or cancelled) by an admin.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderQuoted || next == OrderCancelled
	case OrderQuoted:
		return next == OrderAccepted || next == OrderRejected || next == OrderCancelled
	case OrderAccepted:
		return next == OrderCompleted || next == OrderCancelled
	default:
		return false
	}
}

type CreateOrderInput struct {
	Items        []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	CustomerNote *string                `json:"customer_note,omitempty" validate:"omitempty,max=1000"`
}

type CreateOrderItemInput struct {
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	DesignName    *string    `json:"design_name,omitempty" validate:"omitempty,max=120"`
	DesignMediaID *uuid.UUID `json:"design_media_id,omitempty"`
	Quantity      int        `json:"quantity" validate:"required,min=1"`
}

type QuoteOrderInput struct {
	PriceCents int64   `json:"price_cents" validate:"required,min=1"`
	AdminNote  *string `json:"admin_note,omitempty" validate:"omitempty,max=1000"`
}
