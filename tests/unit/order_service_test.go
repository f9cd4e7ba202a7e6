package unit_test

import (
	"context"
	"testing"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/service/order"
	"dangstore-backend/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderService(orderRepo *mocks.OrderRepository, productRepo *mocks.ProductRepository, notifSvc *mocks.NotificationService, emailSvc *mocks.EmailService, userRepo *mocks.UserRepository) order.Service {
	return order.NewService(orderRepo, productRepo, new(mocks.MediaRepository), userRepo, new(mocks.AuditLogRepository), notifSvc, emailSvc)
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("Success Notifies Admins", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		productRepo := new(mocks.ProductRepository)
		notifSvc := new(mocks.NotificationService)
		emailSvc := new(mocks.EmailService)
		userRepo := new(mocks.UserRepository)
		auditRepo := new(mocks.AuditLogRepository)
		mediaRepo := new(mocks.MediaRepository)
		svc := order.NewService(orderRepo, productRepo, mediaRepo, userRepo, auditRepo, notifSvc, emailSvc)

		productID := uuid.New()
		product := &domain.Product{ID: productID, IsActive: true}
		customer := &domain.User{ID: customerID, Email: "dana@example.com", FullName: "Dana García"}

		productRepo.On("GetByID", ctx, productID).Return(product, nil).Once()
		orderRepo.On("Create", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.CustomerID == customerID && o.Status == domain.OrderPending && len(o.Items) == 1
		})).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		notifSvc.On("NotifyOrderCreated", ctx, mock.Anything, customer).Return(nil).Once()
		emailSvc.On("SendOrderReceivedEmail", mock.Anything, customer.Email, customer.FullName, mock.Anything).Return(nil).Maybe()

		created, err := svc.Create(ctx, customerID, domain.CreateOrderInput{
			Items: []domain.CreateOrderItemInput{{ProductID: &productID, Quantity: 2}},
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderPending, created.Status)
		orderRepo.AssertExpectations(t)
		notifSvc.AssertExpectations(t)
	})

	t.Run("Empty Order", func(t *testing.T) {
		svc := newOrderService(new(mocks.OrderRepository), new(mocks.ProductRepository), new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		created, err := svc.Create(ctx, customerID, domain.CreateOrderInput{})

		assert.ErrorIs(t, err, domain.ErrEmptyOrder)
		assert.Nil(t, created)
	})

	t.Run("Blank Item", func(t *testing.T) {
		svc := newOrderService(new(mocks.OrderRepository), new(mocks.ProductRepository), new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		created, err := svc.Create(ctx, customerID, domain.CreateOrderInput{
			Items: []domain.CreateOrderItemInput{{Quantity: 1}},
		})

		assert.ErrorIs(t, err, order.ErrBlankOrderItem)
		assert.Nil(t, created)
	})

	t.Run("Inactive Product", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		productRepo := new(mocks.ProductRepository)
		svc := newOrderService(orderRepo, productRepo, new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		productID := uuid.New()
		productRepo.On("GetByID", ctx, productID).Return(&domain.Product{ID: productID, IsActive: false}, nil).Once()

		created, err := svc.Create(ctx, customerID, domain.CreateOrderInput{
			Items: []domain.CreateOrderItemInput{{ProductID: &productID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Nil(t, created)
		orderRepo.AssertNotCalled(t, "Create")
	})
}

func TestOrderService_Quote(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	customerID := uuid.New()

	t.Run("Pending Becomes Quoted", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		notifSvc := new(mocks.NotificationService)
		emailSvc := new(mocks.EmailService)
		userRepo := new(mocks.UserRepository)
		auditRepo := new(mocks.AuditLogRepository)
		svc := order.NewService(orderRepo, new(mocks.ProductRepository), new(mocks.MediaRepository), userRepo, auditRepo, notifSvc, emailSvc)

		existing := &domain.Order{ID: uuid.New(), CustomerID: customerID, Status: domain.OrderPending}
		customer := &domain.User{ID: customerID, Email: "dana@example.com", FullName: "Dana García"}

		orderRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
		orderRepo.On("UpdateStatus", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderQuoted && o.QuotedPriceCents != nil && *o.QuotedPriceCents == 45000 && o.QuotedBy != nil && *o.QuotedBy == adminID
		})).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		notifSvc.On("NotifyQuoteReady", ctx, mock.Anything).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		emailSvc.On("SendQuoteReadyEmail", mock.Anything, customer.Email, customer.FullName, mock.Anything, int64(45000)).Return(nil).Maybe()

		quoted, err := svc.Quote(ctx, adminID, existing.ID, domain.QuoteOrderInput{PriceCents: 45000})

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderQuoted, quoted.Status)
		notifSvc.AssertExpectations(t)
	})

	t.Run("Completed Order Cannot Be Quoted", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		svc := newOrderService(orderRepo, new(mocks.ProductRepository), new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		existing := &domain.Order{ID: uuid.New(), CustomerID: customerID, Status: domain.OrderCompleted}
		orderRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()

		quoted, err := svc.Quote(ctx, adminID, existing.ID, domain.QuoteOrderInput{PriceCents: 10000})

		assert.ErrorIs(t, err, domain.ErrInvalidOrderTransition)
		assert.Nil(t, quoted)
	})
}

func TestOrderService_Decide(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("Accept", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		notifSvc := new(mocks.NotificationService)
		auditRepo := new(mocks.AuditLogRepository)
		svc := order.NewService(orderRepo, new(mocks.ProductRepository), new(mocks.MediaRepository), new(mocks.UserRepository), auditRepo, notifSvc, new(mocks.EmailService))

		price := int64(30000)
		existing := &domain.Order{ID: uuid.New(), CustomerID: customerID, Status: domain.OrderQuoted, QuotedPriceCents: &price}

		orderRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
		orderRepo.On("UpdateStatus", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderAccepted && o.DecidedAt != nil
		})).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		notifSvc.On("NotifyQuoteDecision", ctx, mock.Anything, true).Return(nil).Once()

		decided, err := svc.Decide(ctx, customerID, existing.ID, true)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderAccepted, decided.Status)
		notifSvc.AssertExpectations(t)
	})

	t.Run("Foreign Order Reads As Not Found", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		svc := newOrderService(orderRepo, new(mocks.ProductRepository), new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		existing := &domain.Order{ID: uuid.New(), CustomerID: uuid.New(), Status: domain.OrderQuoted}
		orderRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()

		decided, err := svc.Decide(ctx, customerID, existing.ID, true)

		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.Nil(t, decided)
	})

	t.Run("Pending Order Has No Quote", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		svc := newOrderService(orderRepo, new(mocks.ProductRepository), new(mocks.NotificationService), new(mocks.EmailService), new(mocks.UserRepository))

		existing := &domain.Order{ID: uuid.New(), CustomerID: customerID, Status: domain.OrderPending}
		orderRepo.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()

		decided, err := svc.Decide(ctx, customerID, existing.ID, false)

		assert.ErrorIs(t, err, domain.ErrInvalidOrderTransition)
		assert.Nil(t, decided)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderPending, domain.OrderQuoted, true},
		{domain.OrderPending, domain.OrderCancelled, true},
		{domain.OrderPending, domain.OrderAccepted, false},
		{domain.OrderQuoted, domain.OrderAccepted, true},
		{domain.OrderQuoted, domain.OrderRejected, true},
		{domain.OrderQuoted, domain.OrderCompleted, false},
		{domain.OrderAccepted, domain.OrderCompleted, true},
		{domain.OrderAccepted, domain.OrderQuoted, false},
		{domain.OrderRejected, domain.OrderQuoted, false},
		{domain.OrderCompleted, domain.OrderCancelled, false},
		{domain.OrderCancelled, domain.OrderPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
