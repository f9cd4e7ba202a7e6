package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dangstore-backend/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Order, int64, error)
	List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
	LastOrderAt(ctx context.Context) (*time.Time, error)
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in a single transaction so a
// half-written order is never visible.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	orderQuery := `
		INSERT INTO orders (id, customer_id, status, customer_note)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	if err := tx.QueryRowxContext(ctx, orderQuery,
		order.ID, order.CustomerID, order.Status, order.CustomerNote,
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (item_id, order_id, product_id, design_name, design_media_id, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	for i := range order.Items {
		item := &order.Items[i]
		if err := tx.QueryRowxContext(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.DesignName, item.DesignMediaID, item.Quantity,
		).Scan(&item.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	query := `SELECT * FROM orders WHERE id = $1`

	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &order.Items, itemQuery, id); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Order, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM orders WHERE customer_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, customerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders, query, customerID, params.PageSize, params.Offset())
	return orders, total, err
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error) {
	params.Validate()

	if status != nil {
		var total int64
		countQuery := `SELECT COUNT(*) FROM orders WHERE status = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *status); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM orders
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`

		var orders []domain.Order
		err := r.db.SelectContext(ctx, &orders, query, *status, params.PageSize, params.Offset())
		return orders, total, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders, query, params.PageSize, params.Offset())
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, admin_note = $3, quoted_price_cents = $4, quoted_by = $5,
			quoted_at = $6, decided_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		order.ID, order.Status, order.AdminNote, order.QuotedPriceCents,
		order.QuotedBy, order.QuotedAt, order.DecidedAt,
	).Scan(&order.UpdatedAt)
}

func (r *orderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE status = $1`, status)
	return count, err
}

func (r *orderRepository) LastOrderAt(ctx context.Context) (*time.Time, error) {
	var last sql.NullTime
	err := r.db.GetContext(ctx, &last, `SELECT MAX(created_at) FROM orders`)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}
