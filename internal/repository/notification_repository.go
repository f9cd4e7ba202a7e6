package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dangstore-backend/internal/domain"
)

// NotificationRepository persists user-facing notifications. Every mutating
// operation is scoped to the owning user, so a wrong id and a wrong owner are
// indistinguishable to callers.
type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Stats(ctx context.Context, userID uuid.UUID) (*domain.NotificationStats, error)
	CountUnread(ctx context.Context) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, category, title, message, order_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Category, notif.Title, notif.Message, notif.OrderID, notif.Data,
	).Scan(&notif.CreatedAt, &notif.UpdatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	filter := `WHERE user_id = $1`
	if unreadOnly {
		filter = `WHERE user_id = $1 AND is_read = false`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications `+filter, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM notifications ` + filter + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	var notifications []domain.Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

// MarkAsRead returns the updated row, or nil when the id is missing or
// owned by someone else. The update has no is_read guard, so marking an
// already-read notification is idempotent and still returns the record.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET is_read = true, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING *`

	var notif domain.Notification
	err := r.db.GetContext(ctx, &notif, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET is_read = true, updated_at = NOW() WHERE user_id = $1 AND is_read = false`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `DELETE FROM notifications WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) Stats(ctx context.Context, userID uuid.UUID) (*domain.NotificationStats, error) {
	var stats domain.NotificationStats
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_read = false) AS unread,
			COUNT(*) FILTER (WHERE is_read = true) AS read
		FROM notifications
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &stats, query, userID)
	return &stats, err
}

func (r *notificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE is_read = false`)
	return count, err
}
