package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
	"dangstore-backend/internal/service/email"
	"dangstore-backend/internal/service/notification"
)

var ErrBlankOrderItem = errors.New("order item needs a product or a custom design")

type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error)
	List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error)

	Quote(ctx context.Context, adminID uuid.UUID, id uuid.UUID, input domain.QuoteOrderInput) (*domain.Order, error)
	Decide(ctx context.Context, customerID uuid.UUID, id uuid.UUID, accepted bool) (*domain.Order, error)
	Complete(ctx context.Context, adminID uuid.UUID, id uuid.UUID) (*domain.Order, error)
	Cancel(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) (*domain.Order, error)
}

type service struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	mediaRepo   repository.MediaRepository
	userRepo    repository.UserRepository
	auditRepo   repository.AuditLogRepository
	notifSvc    notification.Service
	emailSvc    email.Service
}

func NewService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	mediaRepo repository.MediaRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	notifSvc notification.Service,
	emailSvc email.Service,
) Service {
	return &service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mediaRepo:   mediaRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
	}
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == nil && item.DesignName == nil && item.DesignMediaID == nil {
			return nil, ErrBlankOrderItem
		}

		if item.ProductID != nil {
			product, err := s.productRepo.GetByID(ctx, *item.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil || !product.IsActive {
				return nil, domain.ErrProductNotFound
			}
		}

		if item.DesignMediaID != nil {
			media, err := s.mediaRepo.GetByID(ctx, *item.DesignMediaID)
			if err != nil {
				return nil, err
			}
			if media == nil {
				return nil, domain.ErrMediaNotFound
			}
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items = append(items, domain.OrderItem{
			ID:            uuid.New(),
			ProductID:     item.ProductID,
			DesignName:    item.DesignName,
			DesignMediaID: item.DesignMediaID,
			Quantity:      quantity,
		})
	}

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Status:       domain.OrderPending,
		CustomerNote: input.CustomerNote,
		Items:        items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     customerID,
		Action:     "CREATE",
		EntityType: domain.AuditEntityOrder,
		EntityID:   order.ID,
		NewValue:   order,
	})

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil || customer == nil {
		log.Printf("order %s created but customer lookup failed: %v", order.ID, err)
		return order, nil
	}

	if err := s.notifSvc.NotifyOrderCreated(ctx, order, customer); err != nil {
		log.Printf("failed to notify admins about order %s: %v", order.ID, err)
	}

	go func() {
		_ = s.emailSvc.SendOrderReceivedEmail(context.Background(), customer.Email, customer.FullName, order.ID.String())
	}()

	return order, nil
}

func (s *service) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	// Customers only ever see their own orders. A foreign id reads the
	// same as a missing one so order ids cannot be probed.
	if order.CustomerID != userID && !isAdmin {
		return nil, domain.ErrOrderNotFound
	}

	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error) {
	orders, total, err := s.orderRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Order]{}, err
	}
	return domain.NewPaginatedResponse(orders, params.Page, params.PageSize, total), nil
}

func (s *service) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Order]{}, err
	}
	return domain.NewPaginatedResponse(orders, params.Page, params.PageSize, total), nil
}

func (s *service) Quote(ctx context.Context, adminID uuid.UUID, id uuid.UUID, input domain.QuoteOrderInput) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(domain.OrderQuoted) {
		return nil, domain.ErrInvalidOrderTransition
	}

	oldOrder := *order
	now := time.Now()
	order.Status = domain.OrderQuoted
	order.QuotedPriceCents = &input.PriceCents
	order.QuotedBy = &adminID
	order.QuotedAt = &now
	order.AdminNote = input.AdminNote

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     adminID,
		Action:     "QUOTE",
		EntityType: domain.AuditEntityOrder,
		EntityID:   order.ID,
		OldValue:   oldOrder,
		NewValue:   *order,
	})

	if err := s.notifSvc.NotifyQuoteReady(ctx, order); err != nil {
		log.Printf("failed to notify customer about quote for order %s: %v", order.ID, err)
	}

	if customer, err := s.userRepo.GetByID(ctx, order.CustomerID); err == nil && customer != nil {
		go func() {
			_ = s.emailSvc.SendQuoteReadyEmail(context.Background(), customer.Email, customer.FullName, order.ID.String(), input.PriceCents)
		}()
	}

	return order, nil
}

func (s *service) Decide(ctx context.Context, customerID uuid.UUID, id uuid.UUID, accepted bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}

	next := domain.OrderRejected
	if accepted {
		next = domain.OrderAccepted
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidOrderTransition
	}

	oldOrder := *order
	now := time.Now()
	order.Status = next
	order.DecidedAt = &now

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	action := "REJECT_QUOTE"
	if accepted {
		action = "ACCEPT_QUOTE"
	}
	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     customerID,
		Action:     action,
		EntityType: domain.AuditEntityOrder,
		EntityID:   order.ID,
		OldValue:   oldOrder,
		NewValue:   *order,
	})

	if err := s.notifSvc.NotifyQuoteDecision(ctx, order, accepted); err != nil {
		log.Printf("failed to notify admins about decision on order %s: %v", order.ID, err)
	}

	return order, nil
}

func (s *service) Complete(ctx context.Context, adminID uuid.UUID, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(domain.OrderCompleted) {
		return nil, domain.ErrInvalidOrderTransition
	}

	oldOrder := *order
	order.Status = domain.OrderCompleted

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     adminID,
		Action:     "COMPLETE",
		EntityType: domain.AuditEntityOrder,
		EntityID:   order.ID,
		OldValue:   oldOrder,
		NewValue:   *order,
	})

	return order, nil
}

func (s *service) Cancel(ctx context.Context, userID uuid.UUID, id uuid.UUID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.CustomerID != userID && !isAdmin {
		return nil, domain.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return nil, domain.ErrInvalidOrderTransition
	}

	oldOrder := *order
	order.Status = domain.OrderCancelled

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     userID,
		Action:     "CANCEL",
		EntityType: domain.AuditEntityOrder,
		EntityID:   order.ID,
		OldValue:   oldOrder,
		NewValue:   *order,
	})

	return order, nil
}
