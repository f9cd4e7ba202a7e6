package unit_test

import (
	"context"
	"errors"
	"testing"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/service/notification"
	"dangstore-backend/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Persists Then Publishes", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockPub := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, mockUsers, mockPub)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == userID && n.Category == domain.NotifSystem && !n.IsRead
		})).Return(nil).Once()
		mockPub.On("Publish", userID, "new_notification", mock.Anything).Return(1).Once()

		n, err := svc.Notify(ctx, userID, domain.NotifSystem, "Aviso", "Mensaje", nil, nil)

		assert.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, "Aviso", n.Title)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Invalid Category", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockPub := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, mockUsers, mockPub)

		n, err := svc.Notify(ctx, userID, "bogus", "Aviso", "Mensaje", nil, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidNotificationCategory)
		assert.Nil(t, n)
		mockRepo.AssertNotCalled(t, "Create")
		mockPub.AssertNotCalled(t, "Publish")
	})

	t.Run("Create Failure Skips Publish", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockPub := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, mockUsers, mockPub)

		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

		n, err := svc.Notify(ctx, userID, domain.NotifSystem, "Aviso", "Mensaje", nil, nil)

		assert.Error(t, err)
		assert.Nil(t, n)
		mockPub.AssertNotCalled(t, "Publish")
	})

	t.Run("Zero Delivery Is Not An Error", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockUsers := new(mocks.UserRepository)
		mockPub := new(mocks.Publisher)
		svc := notification.NewService(mockRepo, mockUsers, mockPub)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("Publish", userID, "new_notification", mock.Anything).Return(0).Once()

		n, err := svc.Notify(ctx, userID, domain.NotifSystem, "Aviso", "Mensaje", nil, nil)

		assert.NoError(t, err)
		assert.NotNil(t, n)
	})
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("Returns Updated Record", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.UserRepository), new(mocks.Publisher))

		updated := &domain.Notification{ID: notifID, UserID: userID, IsRead: true}
		mockRepo.On("MarkAsRead", ctx, userID, notifID).Return(updated, nil).Once()

		notif, err := svc.MarkAsRead(ctx, userID, notifID)
		assert.NoError(t, err)
		assert.Equal(t, notifID, notif.ID)
		assert.True(t, notif.IsRead)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Foreign Row Reads As Not Found", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.UserRepository), new(mocks.Publisher))

		mockRepo.On("MarkAsRead", ctx, userID, notifID).Return(nil, nil).Once()

		notif, err := svc.MarkAsRead(ctx, userID, notifID)
		assert.Nil(t, notif)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.UserRepository), new(mocks.Publisher))

		mockRepo.On("Delete", ctx, userID, notifID).Return(int64(1), nil).Once()

		assert.NoError(t, svc.Delete(ctx, userID, notifID))
	})

	t.Run("Missing Row", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.UserRepository), new(mocks.Publisher))

		mockRepo.On("Delete", ctx, userID, notifID).Return(int64(0), nil).Once()

		err := svc.Delete(ctx, userID, notifID)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})
}

func TestNotificationService_Stats(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(mockRepo, new(mocks.UserRepository), new(mocks.Publisher))

	mockRepo.On("Stats", ctx, userID).Return(&domain.NotificationStats{Total: 7, Unread: 3, Read: 4}, nil).Once()

	stats, err := svc.Stats(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, stats.Total, stats.Unread+stats.Read)
}

func TestNotificationService_NotifyOrderCreated(t *testing.T) {
	ctx := context.Background()

	admin1 := domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	admin2 := domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	customer := &domain.User{ID: uuid.New(), FullName: "Dana García"}
	order := &domain.Order{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Status:     domain.OrderPending,
		Items:      []domain.OrderItem{{ID: uuid.New(), Quantity: 2}},
	}

	mockRepo := new(mocks.NotificationRepository)
	mockUsers := new(mocks.UserRepository)
	mockPub := new(mocks.Publisher)
	svc := notification.NewService(mockRepo, mockUsers, mockPub)

	mockUsers.On("GetByRoles", ctx, []domain.UserRole{domain.RoleAdmin}).Return([]domain.User{admin1, admin2}, nil).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Category == domain.NotifNewOrder && n.OrderID != nil && *n.OrderID == order.ID
	})).Return(nil).Twice()
	mockPub.On("Publish", admin1.ID, "new_notification", mock.Anything).Return(1).Once()
	mockPub.On("Publish", admin2.ID, "new_notification", mock.Anything).Return(0).Once()

	err := svc.NotifyOrderCreated(ctx, order, customer)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestNotificationService_NotifyQuoteReady(t *testing.T) {
	ctx := context.Background()
	price := int64(25000)
	order := &domain.Order{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		Status:           domain.OrderQuoted,
		QuotedPriceCents: &price,
	}

	mockRepo := new(mocks.NotificationRepository)
	mockPub := new(mocks.Publisher)
	svc := notification.NewService(mockRepo, new(mocks.UserRepository), mockPub)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == order.CustomerID && n.Category == domain.NotifQuoteReady
	})).Return(nil).Once()
	mockPub.On("Publish", order.CustomerID, "new_notification", mock.Anything).Return(1).Once()

	assert.NoError(t, svc.NotifyQuoteReady(ctx, order))
	mockRepo.AssertExpectations(t)
}
