package handler

import (
	"github.com/gofiber/fiber/v2"

	"dangstore-backend/internal/domain"
	"dangstore-backend/internal/service"
	"dangstore-backend/internal/service/realtime"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Product      *ProductHandler
	Public       *PublicHandler
	Review       *ReviewHandler
	Order        *OrderHandler
	Media        *MediaHandler
	Notification *NotificationHandler
	Realtime     *RealtimeHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Product:      NewProductHandler(services.Product),
		Public:       NewPublicHandler(services.Product, services.Review),
		Review:       NewReviewHandler(services.Review),
		Order:        NewOrderHandler(services.Order),
		Media:        NewMediaHandler(services.Media),
		Notification: NewNotificationHandler(services.Notification),
		Realtime:     NewRealtimeHandler(services.Auth, hub),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Audit:        NewAuditHandler(services.Audit),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
