package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/repository"
)

type Stats struct {
	TotalCustomers      int64      `json:"total_customers"`
	TotalProducts       int64      `json:"total_products"`
	ActiveProducts      int64      `json:"active_products"`
	PendingOrders       int64      `json:"pending_orders"`
	QuotedOrders        int64      `json:"quoted_orders"`
	AcceptedOrders      int64      `json:"accepted_orders"`
	CompletedOrders     int64      `json:"completed_orders"`
	UnreadNotifications int64      `json:"unread_notifications"`
	LastOrderAt         *time.Time `json:"last_order_at"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	notifRepo   repository.NotificationRepository
	redis       *redis.Client
}

func NewService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository, notifRepo repository.NotificationRepository, redis *redis.Client) Service {
	return &service{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		notifRepo:   notifRepo,
		redis:       redis,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	cacheKey := "dashboard:stats"

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	totalCustomers, err := s.userRepo.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.productRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	activeProducts, err := s.productRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	pendingOrders, err := s.orderRepo.CountByStatus(ctx, domain.OrderPending)
	if err != nil {
		return nil, err
	}

	quotedOrders, err := s.orderRepo.CountByStatus(ctx, domain.OrderQuoted)
	if err != nil {
		return nil, err
	}

	acceptedOrders, err := s.orderRepo.CountByStatus(ctx, domain.OrderAccepted)
	if err != nil {
		return nil, err
	}

	completedOrders, err := s.orderRepo.CountByStatus(ctx, domain.OrderCompleted)
	if err != nil {
		return nil, err
	}

	unreadNotifications, err := s.notifRepo.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	lastOrderAt, _ := s.orderRepo.LastOrderAt(ctx)

	stats := &Stats{
		TotalCustomers:      totalCustomers,
		TotalProducts:       totalProducts,
		ActiveProducts:      activeProducts,
		PendingOrders:       pendingOrders,
		QuotedOrders:        quotedOrders,
		AcceptedOrders:      acceptedOrders,
		CompletedOrders:     completedOrders,
		UnreadNotifications: unreadNotifications,
		LastOrderAt:         lastOrderAt,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, 5*time.Minute).Err()
		}
	}

	return stats, nil
}
