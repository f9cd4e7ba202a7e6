package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dangstore-backend/internal/domain"
)

type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUploader(ctx context.Context, uploadedBy uuid.UUID, params domain.PaginationParams) ([]domain.Media, int64, error)
}

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	query := `
		INSERT INTO media (media_id, uploaded_by, file_name, file_size, mime_type, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		media.ID, media.UploadedBy, media.FileName, media.FileSize, media.MimeType, media.StoragePath,
	).Scan(&media.CreatedAt)
}

func (r *mediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	var media domain.Media
	query := `SELECT * FROM media WHERE media_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &media, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE media SET deleted_at = NOW() WHERE media_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *mediaRepository) ListByUploader(ctx context.Context, uploadedBy uuid.UUID, params domain.PaginationParams) ([]domain.Media, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM media WHERE uploaded_by = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, uploadedBy); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM media
		WHERE uploaded_by = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var mediaList []domain.Media
	err := r.db.SelectContext(ctx, &mediaList, query, uploadedBy, params.PageSize, params.Offset())
	return mediaList, total, err
}
