package service

import (
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"dangstore-backend/internal/config"
	"dangstore-backend/internal/repository"
	"dangstore-backend/internal/service/audit"
	"dangstore-backend/internal/service/auth"
	"dangstore-backend/internal/service/dashboard"
	"dangstore-backend/internal/service/email"
	"dangstore-backend/internal/service/media"
	"dangstore-backend/internal/service/notification"
	"dangstore-backend/internal/service/order"
	"dangstore-backend/internal/service/product"
	"dangstore-backend/internal/service/realtime"
	"dangstore-backend/internal/service/review"
	"dangstore-backend/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Product      product.Service
	Review       review.Service
	Order        order.Service
	Media        media.Service
	Email        email.Service
	Audit        audit.Service
	Notification notification.Service
	Dashboard    dashboard.Service
}

// NewServices wires the service graph. The realtime hub is required:
// notifications always persist first and then fan out through it, so
// starting without a hub would silently drop every push.
func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, hub *realtime.Hub, cfg *config.Config) (*Services, error) {
	if hub == nil {
		return nil, errors.New("realtime hub is required")
	}

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg)
	userService := user.NewService(repos.User)
	notificationService := notification.NewService(repos.Notification, repos.User, hub)
	productService := product.NewService(repos.Product, repos.AuditLog, redis)
	reviewService := review.NewService(repos.Review, repos.Product, redis)
	mediaService := media.NewService(repos.Media, minioClient, cfg)
	orderService := order.NewService(repos.Order, repos.Product, repos.Media, repos.User, repos.AuditLog, notificationService, emailService)
	auditService := audit.NewService(repos.AuditLog)
	dashboardService := dashboard.NewService(repos.User, repos.Product, repos.Order, repos.Notification, redis)

	return &Services{
		Auth:         authService,
		User:         userService,
		Product:      productService,
		Review:       reviewService,
		Order:        orderService,
		Media:        mediaService,
		Email:        emailService,
		Audit:        auditService,
		Notification: notificationService,
		Dashboard:    dashboardService,
	}, nil
}
