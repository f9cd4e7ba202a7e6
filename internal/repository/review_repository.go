package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dangstore-backend/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) ([]domain.Review, int64, error)
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (review_id, product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var review domain.Review
	query := `SELECT * FROM reviews WHERE review_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &review, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW()
		WHERE review_id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		review.ID, review.Rating, review.Comment,
	).Scan(&review.UpdatedAt)
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reviews SET deleted_at = NOW() WHERE review_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) ([]domain.Review, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, productID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			r.*,
			u.full_name AS user_full_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.product_id = $1 AND r.deleted_at IS NULL
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryxContext(ctx, query, productID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		dest := struct {
			domain.Review
			UserFullName string `db:"user_full_name"`
		}{}
		if err := rows.StructScan(&dest); err != nil {
			return nil, 0, err
		}
		review := dest.Review
		review.User = &domain.ReviewUser{ID: review.UserID, FullName: dest.UserFullName}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

func (r *reviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	var result struct {
		Average float64 `db:"average"`
		Count   int64   `db:"count"`
	}
	query := `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews
		WHERE product_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &result, query, productID)
	return result.Average, result.Count, err
}
