package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dangstore-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, category *domain.ProductCategory, params domain.PaginationParams) ([]domain.Product, int64, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category, price_cents, image_url, stock, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.Slug, product.Description, product.Category,
		product.PriceCents, product.ImageURL, product.Stock, product.IsActive, product.CreatedBy,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT * FROM products WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT * FROM products WHERE slug = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &product, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, price_cents = $5,
			image_url = $6, stock = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.Description, product.Category,
		product.PriceCents, product.ImageURL, product.Stock, product.IsActive,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *productRepository) List(ctx context.Context, activeOnly bool, category *domain.ProductCategory, params domain.PaginationParams) ([]domain.Product, int64, error) {
	params.Validate()

	filter := `WHERE deleted_at IS NULL`
	args := []interface{}{}
	if activeOnly {
		filter += ` AND is_active = true`
	}
	if category != nil {
		filter += ` AND category = $1`
		args = append(args, *category)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products `+filter, args...); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT * FROM products ` + filter + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, params.PageSize, params.Offset())

	var products []domain.Product
	err := r.db.SelectContext(ctx, &products, query, args...)
	return products, total, err
}

func (r *productRepository) Search(ctx context.Context, search string, limit int) ([]domain.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var products []domain.Product
	query := `
		SELECT * FROM products
		WHERE deleted_at IS NULL AND is_active = true
			AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2`

	err := r.db.SelectContext(ctx, &products, query, search, limit)
	return products, err
}

func (r *productRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`)
	return count, err
}

func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL AND is_active = true`)
	return count, err
}
