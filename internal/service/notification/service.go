package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
)

// Publisher is the realtime fan-out the dispatcher pushes through. It is
// satisfied by *realtime.Hub. Publishing is best-effort: durability comes
// from the store, never from the push.
type Publisher interface {
	Publish(userID uuid.UUID, event string, data interface{}) int
}

const eventNewNotification = "new_notification"

type Service interface {
	// Notify persists the notification and then pushes it to the user's open
	// connections. The create is authoritative: if it fails nothing is
	// delivered, and a failed push never rolls it back.
	Notify(ctx context.Context, userID uuid.UUID, category domain.NotificationCategory, title, message string, orderID *uuid.UUID, data map[string]string) (*domain.Notification, error)

	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Stats(ctx context.Context, userID uuid.UUID) (*domain.NotificationStats, error)

	NotifyOrderCreated(ctx context.Context, order *domain.Order, customer *domain.User) error
	NotifyQuoteReady(ctx context.Context, order *domain.Order) error
	NotifyQuoteDecision(ctx context.Context, order *domain.Order, accepted bool) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher Publisher
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, publisher Publisher) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, category domain.NotificationCategory, title, message string, orderID *uuid.UUID, data map[string]string) (*domain.Notification, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidNotificationCategory
	}

	notif := &domain.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Category: category,
		Title:    title,
		Message:  message,
		OrderID:  orderID,
	}
	if len(data) > 0 {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		notif.Data = payload
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	// Best-effort realtime hint. Clients without an open connection find
	// the record on their next poll.
	s.publisher.Publish(userID, eventNewNotification, notif)

	return notif, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.MarkAsRead(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return notif, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := s.notifRepo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *service) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.DeleteAll(ctx, userID)
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*domain.NotificationStats, error) {
	return s.notifRepo.Stats(ctx, userID)
}

func (s *service) NotifyOrderCreated(ctx context.Context, order *domain.Order, customer *domain.User) error {
	admins, err := s.userRepo.GetByRoles(ctx, []domain.UserRole{domain.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to get admins: %w", err)
	}

	data := map[string]string{"order_id": order.ID.String()}
	message := fmt.Sprintf("%s realizó un pedido con %d artículo(s)", customer.FullName, len(order.Items))

	for _, admin := range admins {
		if _, err := s.Notify(ctx, admin.ID, domain.NotifNewOrder, "Nuevo pedido", message, &order.ID, data); err != nil {
			log.Printf("Failed to notify admin %s about order %s: %v", admin.ID, order.ID, err)
		}
	}

	return nil
}

func (s *service) NotifyQuoteReady(ctx context.Context, order *domain.Order) error {
	price := int64(0)
	if order.QuotedPriceCents != nil {
		price = *order.QuotedPriceCents
	}

	data := map[string]string{"order_id": order.ID.String()}
	message := fmt.Sprintf("Tu cotización está lista: $%.2f MXN", float64(price)/100)

	_, err := s.Notify(ctx, order.CustomerID, domain.NotifQuoteReady, "Cotización lista", message, &order.ID, data)
	return err
}

func (s *service) NotifyQuoteDecision(ctx context.Context, order *domain.Order, accepted bool) error {
	admins, err := s.userRepo.GetByRoles(ctx, []domain.UserRole{domain.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to get admins: %w", err)
	}

	category := domain.NotifQuoteAccepted
	title := "Cotización aceptada"
	message := "El cliente aceptó la cotización"
	if !accepted {
		category = domain.NotifQuoteRejected
		title = "Cotización rechazada"
		message = "El cliente rechazó la cotización"
	}

	data := map[string]string{"order_id": order.ID.String()}
	for _, admin := range admins {
		if _, err := s.Notify(ctx, admin.ID, category, title, message, &order.ID, data); err != nil {
			log.Printf("Failed to notify admin %s about order %s: %v", admin.ID, order.ID, err)
		}
	}

	return nil
}
