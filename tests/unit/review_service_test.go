package unit_test

import (
	"context"
	"testing"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/service/review"
	"dangstore-backend/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		reviewRepo := new(mocks.ReviewRepository)
		productRepo := new(mocks.ProductRepository)
		svc := review.NewService(reviewRepo, productRepo, nil)

		productRepo.On("GetByID", ctx, productID).Return(&domain.Product{ID: productID, IsActive: true}, nil).Once()
		reviewRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Review) bool {
			return r.ProductID == productID && r.UserID == userID && r.Rating == 5
		})).Return(nil).Once()

		created, err := svc.Create(ctx, productID, userID, domain.CreateReviewInput{Rating: 5})

		assert.NoError(t, err)
		assert.Equal(t, 5, created.Rating)
		reviewRepo.AssertExpectations(t)
	})

	t.Run("Rating Out Of Range", func(t *testing.T) {
		svc := review.NewService(new(mocks.ReviewRepository), new(mocks.ProductRepository), nil)

		created, err := svc.Create(ctx, productID, userID, domain.CreateReviewInput{Rating: 6})

		assert.ErrorIs(t, err, review.ErrInvalidRating)
		assert.Nil(t, created)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		reviewRepo := new(mocks.ReviewRepository)
		productRepo := new(mocks.ProductRepository)
		svc := review.NewService(reviewRepo, productRepo, nil)

		productRepo.On("GetByID", ctx, productID).Return(nil, nil).Once()

		created, err := svc.Create(ctx, productID, userID, domain.CreateReviewInput{Rating: 4})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Nil(t, created)
		reviewRepo.AssertNotCalled(t, "Create")
	})
}

func TestReviewService_Update(t *testing.T) {
	ctx := context.Background()
	reviewID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()

	existing := &domain.Review{ID: reviewID, ProductID: uuid.New(), UserID: ownerID, Rating: 3}

	t.Run("Owner Can Edit", func(t *testing.T) {
		reviewRepo := new(mocks.ReviewRepository)
		svc := review.NewService(reviewRepo, new(mocks.ProductRepository), nil)

		newRating := 4
		reviewRepo.On("GetByID", ctx, reviewID).Return(existing, nil).Once()
		reviewRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.Review) bool {
			return r.Rating == newRating
		})).Return(nil).Once()

		updated, err := svc.Update(ctx, ownerID, reviewID, false, domain.UpdateReviewInput{Rating: &newRating})

		assert.NoError(t, err)
		assert.Equal(t, newRating, updated.Rating)
	})

	t.Run("Stranger Cannot Edit", func(t *testing.T) {
		reviewRepo := new(mocks.ReviewRepository)
		svc := review.NewService(reviewRepo, new(mocks.ProductRepository), nil)

		newRating := 1
		reviewRepo.On("GetByID", ctx, reviewID).Return(existing, nil).Once()

		updated, err := svc.Update(ctx, strangerID, reviewID, false, domain.UpdateReviewInput{Rating: &newRating})

		assert.ErrorIs(t, err, review.ErrNotReviewer)
		assert.Nil(t, updated)
		reviewRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Admin Can Edit Any", func(t *testing.T) {
		reviewRepo := new(mocks.ReviewRepository)
		svc := review.NewService(reviewRepo, new(mocks.ProductRepository), nil)

		newRating := 2
		reviewRepo.On("GetByID", ctx, reviewID).Return(existing, nil).Once()
		reviewRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.Update(ctx, strangerID, reviewID, true, domain.UpdateReviewInput{Rating: &newRating})

		assert.NoError(t, err)
		assert.NotNil(t, updated)
	})
}

func TestReviewService_RatingSummary(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	reviewRepo := new(mocks.ReviewRepository)
	svc := review.NewService(reviewRepo, new(mocks.ProductRepository), nil)

	reviewRepo.On("AverageRating", ctx, productID).Return(4.5, int64(12), nil).Once()

	summary, err := svc.RatingSummary(ctx, productID)

	assert.NoError(t, err)
	assert.Equal(t, 4.5, summary.Average)
	assert.Equal(t, int64(12), summary.Count)
}
