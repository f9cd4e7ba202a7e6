package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
)

var (
	ErrInvalidCategory = domain.ErrInvalidProductCategory
	ErrSlugTaken       = domain.ErrProductSlugTaken
)

const catalogCacheKey = "catalog:products"

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	List(ctx context.Context, activeOnly bool, category *domain.ProductCategory, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error)
	ListCatalog(ctx context.Context, category *domain.ProductCategory, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

type service struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditLogRepository
	redis       *redis.Client
}

func NewService(productRepo repository.ProductRepository, auditRepo repository.AuditLogRepository, redis *redis.Client) Service {
	return &service{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		redis:       redis,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error) {
	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	existing, err := s.productRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		IsActive:    true,
		CreatedBy:   userID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     userID,
		Action:     "CREATE",
		EntityType: domain.AuditEntityProduct,
		EntityID:   product.ID,
		NewValue:   product,
	})

	s.invalidateCatalog(ctx)

	return product, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	oldProduct := *product

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, ErrInvalidCategory
		}
		product.Category = *input.Category
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     userID,
		Action:     "UPDATE",
		EntityType: domain.AuditEntityProduct,
		EntityID:   product.ID,
		OldValue:   oldProduct,
		NewValue:   *product,
	})

	s.invalidateCatalog(ctx)

	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     userID,
		Action:     "DELETE",
		EntityType: domain.AuditEntityProduct,
		EntityID:   id,
		OldValue:   product,
	})

	s.invalidateCatalog(ctx)

	return nil
}

func (s *service) List(ctx context.Context, activeOnly bool, category *domain.ProductCategory, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error) {
	products, total, err := s.productRepo.List(ctx, activeOnly, category, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Product]{}, err
	}
	return domain.NewPaginatedResponse(products, params.Page, params.PageSize, total), nil
}

// ListCatalog serves the storefront listing. The first page of the
// unfiltered catalog is the hottest query, so it is cached in Redis.
func (s *service) ListCatalog(ctx context.Context, category *domain.ProductCategory, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error) {
	cacheable := category == nil && params.Page == 1 && params.PageSize == domain.DefaultPageSize

	if cacheable && s.redis != nil {
		if cached, err := s.redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var page domain.PaginatedResponse[domain.Product]
			if json.Unmarshal([]byte(cached), &page) == nil {
				return page, nil
			}
		}
	}

	page, err := s.List(ctx, true, category, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Product]{}, err
	}

	if cacheable && s.redis != nil {
		if pageJSON, err := json.Marshal(page); err == nil {
			_ = s.redis.Set(ctx, catalogCacheKey, pageJSON, 5*time.Minute).Err()
		}
	}

	return page, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.productRepo.Search(ctx, query, limit)
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, catalogCacheKey).Err()
	}
}
