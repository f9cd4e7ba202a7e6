package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"dangstore-backend/internal/config"
	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
)

// Customers upload design artwork for personalized pieces, so only
// image types are accepted.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/webp":    {},
	"image/svg+xml": {},
}

const maxUploadSize = 10 << 20 // 10 MiB

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrNotUploader     = errors.New("insufficient permissions to delete this file")
)

type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) error
	ListByUploader(ctx context.Context, uploadedBy uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error)
}

type service struct {
	mediaRepo   repository.MediaRepository
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(mediaRepo repository.MediaRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		mediaRepo:   mediaRepo,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error) {
	if _, ok := allowedMimeTypes[strings.ToLower(mimeType)]; !ok {
		return nil, ErrUnsupportedType
	}
	if fileSize <= 0 || fileSize > maxUploadSize {
		return nil, ErrFileTooLarge
	}

	mediaID := uuid.New()
	storagePath := fmt.Sprintf("designs/%s/%s", time.Now().Format("2006/01"), mediaID.String())

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	media := &domain.Media{
		ID:          mediaID,
		UploadedBy:  userID,
		FileName:    fileName,
		FileSize:    fileSize,
		MimeType:    mimeType,
		StoragePath: storagePath,
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	media.URL = s.getPublicURL(storagePath)
	return media, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, domain.ErrMediaNotFound
	}
	media.URL = s.getPublicURL(media.StoragePath)
	return media, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return domain.ErrMediaNotFound
	}

	if media.UploadedBy != userID && !isAdmin {
		return ErrNotUploader
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, media.StoragePath, minio.RemoveObjectOptions{})
	return nil
}

func (s *service) ListByUploader(ctx context.Context, uploadedBy uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error) {
	mediaList, total, err := s.mediaRepo.ListByUploader(ctx, uploadedBy, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Media]{}, err
	}

	for i := range mediaList {
		mediaList[i].URL = s.getPublicURL(mediaList[i].StoragePath)
	}

	return domain.NewPaginatedResponse(mediaList, params.Page, params.PageSize, total), nil
}

func (s *service) getPublicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
