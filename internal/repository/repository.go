package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Product      ProductRepository
	Review       ReviewRepository
	Order        OrderRepository
	Media        MediaRepository
	Notification NotificationRepository
	AuditLog     AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Product:      NewProductRepository(db),
		Review:       NewReviewRepository(db),
		Order:        NewOrderRepository(db),
		Media:        NewMediaRepository(db),
		Notification: NewNotificationRepository(db),
		AuditLog:     NewAuditLogRepository(db),
	}
}
