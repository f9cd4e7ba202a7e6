package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotReviewer   = errors.New("insufficient permissions to modify this review")
)

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type Service interface {
	Create(ctx context.Context, productID, userID uuid.UUID, input domain.CreateReviewInput) (*domain.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool, input domain.UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) error
	ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Review], error)
	RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error)
}

type service struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	redis       *redis.Client
}

func NewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, redis *redis.Client) Service {
	return &service{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		redis:       redis,
	}
}

func (s *service) Create(ctx context.Context, productID, userID uuid.UUID, input domain.CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, productID)

	return review, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.ErrReviewNotFound
	}
	return review, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool, input domain.UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.ErrReviewNotFound
	}

	if review.UserID != userID && !isAdmin {
		return nil, ErrNotReviewer
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = input.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, review.ProductID)

	return review, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review == nil {
		return domain.ErrReviewNotFound
	}

	if review.UserID != userID && !isAdmin {
		return ErrNotReviewer
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateProduct(ctx, review.ProductID)

	return nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Review], error) {
	cacheKey := fmt.Sprintf("reviews:%s:page:%d:size:%d", productID, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var result domain.PaginatedResponse[domain.Review]
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Review]{}, err
	}

	result := domain.NewPaginatedResponse(reviews, params.Page, params.PageSize, total)

	if s.redis != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, resultJSON, 2*time.Minute).Err()
		}
	}

	return result, nil
}

func (s *service) RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error) {
	avg, count, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{Average: avg, Count: count}, nil
}

func (s *service) invalidateProduct(ctx context.Context, productID uuid.UUID) {
	if s.redis == nil {
		return
	}
	keys, _ := s.redis.Keys(ctx, fmt.Sprintf("reviews:%s:*", productID)).Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}
