package unit_test

import (
	"context"
	"testing"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/service/product"
	"dangstore-backend/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	input := domain.CreateProductInput{
		Name:       "Llavero corazón",
		Slug:       "llavero-corazon",
		Category:   domain.CategoryKeychain,
		PriceCents: 15000,
		Stock:      10,
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.ProductRepository)
		mockAudit := new(mocks.AuditLogRepository)
		svc := product.NewService(mockRepo, mockAudit, nil)

		mockRepo.On("GetBySlug", ctx, input.Slug).Return(nil, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Product) bool {
			return p.Slug == input.Slug && p.IsActive && p.CreatedBy == adminID
		})).Return(nil).Once()
		mockAudit.On("Create", ctx, mock.Anything).Return(nil).Once()

		created, err := svc.Create(ctx, adminID, input)

		assert.NoError(t, err)
		assert.Equal(t, input.Name, created.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Slug Taken", func(t *testing.T) {
		mockRepo := new(mocks.ProductRepository)
		svc := product.NewService(mockRepo, new(mocks.AuditLogRepository), nil)

		mockRepo.On("GetBySlug", ctx, input.Slug).Return(&domain.Product{ID: uuid.New(), Slug: input.Slug}, nil).Once()

		created, err := svc.Create(ctx, adminID, input)

		assert.ErrorIs(t, err, product.ErrSlugTaken)
		assert.Nil(t, created)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Invalid Category", func(t *testing.T) {
		svc := product.NewService(new(mocks.ProductRepository), new(mocks.AuditLogRepository), nil)

		bad := input
		bad.Category = "anillo"

		created, err := svc.Create(ctx, adminID, bad)

		assert.ErrorIs(t, err, product.ErrInvalidCategory)
		assert.Nil(t, created)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("Partial Update", func(t *testing.T) {
		mockRepo := new(mocks.ProductRepository)
		mockAudit := new(mocks.AuditLogRepository)
		svc := product.NewService(mockRepo, mockAudit, nil)

		existing := &domain.Product{
			ID:         uuid.New(),
			Name:       "Pulsera tejida",
			Slug:       "pulsera-tejida",
			Category:   domain.CategoryBracelet,
			PriceCents: 20000,
			IsActive:   true,
		}
		newPrice := int64(25000)

		mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Product) bool {
			return p.PriceCents == newPrice && p.Name == "Pulsera tejida"
		})).Return(nil).Once()
		mockAudit.On("Create", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.Update(ctx, existing.ID, adminID, domain.UpdateProductInput{PriceCents: &newPrice})

		assert.NoError(t, err)
		assert.Equal(t, newPrice, updated.PriceCents)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo := new(mocks.ProductRepository)
		svc := product.NewService(mockRepo, new(mocks.AuditLogRepository), nil)

		missingID := uuid.New()
		mockRepo.On("GetByID", ctx, missingID).Return(nil, nil).Once()

		updated, err := svc.Update(ctx, missingID, adminID, domain.UpdateProductInput{})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Nil(t, updated)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(mocks.ProductRepository)
	svc := product.NewService(mockRepo, new(mocks.AuditLogRepository), nil)

	params := domain.DefaultPagination()
	products := []domain.Product{
		{ID: uuid.New(), Name: "Llavero estrella", IsActive: true},
		{ID: uuid.New(), Name: "Llavero luna", IsActive: true},
	}

	mockRepo.On("List", ctx, true, (*domain.ProductCategory)(nil), params).Return(products, int64(2), nil).Once()

	page, err := svc.List(ctx, true, nil, params)

	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
}
