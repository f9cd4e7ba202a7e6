package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"dangstore-backend/internal/config"
	"dangstore-backend/internal/handler"
	"dangstore-backend/internal/middleware"
	"dangstore-backend/internal/repository"
	"dangstore-backend/internal/service"
	authsvc "dangstore-backend/internal/service/auth"
	"dangstore-backend/internal/service/realtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (design upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	hub := realtime.NewHub()

	services, err := service.NewServices(repos, redis, minioClient, hub, cfg)
	if err != nil {
		log.Fatalf("Failed to wire services: %v", err)
	}

	handlers := handler.NewHandlers(services, hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService authsvc.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	public := v1.Group("/public")
	public.Get("/products", h.Public.ListCatalog)
	public.Get("/products/search", h.Public.SearchProducts)
	public.Get("/products/:slug", h.Public.GetProduct)
	public.Get("/products/:productId/reviews", h.Public.ListReviews)
	public.Get("/products/:productId/rating", h.Public.GetRating)

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/verify-email", h.Auth.VerifyEmail)

	// The WebSocket endpoint authenticates in the upgrade handler
	// because browser clients pass the token as a query parameter.
	v1.Get("/ws", h.Realtime.Upgrade, h.Realtime.Serve())

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/auth/logout", h.Auth.Logout)

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Put("/me", h.User.UpdateProfile)

	orders := protected.Group("/orders")
	orders.Post("/", h.Order.Create)
	orders.Get("/", h.Order.ListMine)
	orders.Get("/:orderId", h.Order.Get)
	orders.Post("/:orderId/accept", h.Order.Accept)
	orders.Post("/:orderId/reject", h.Order.Reject)
	orders.Post("/:orderId/cancel", h.Order.Cancel)

	reviews := protected.Group("/products/:productId/reviews")
	reviews.Post("/", h.Review.Create)
	reviews.Put("/:reviewId", h.Review.Update)
	reviews.Delete("/:reviewId", h.Review.Delete)

	media := protected.Group("/media")
	media.Post("/", h.Media.Upload)
	media.Get("/", h.Media.ListMine)
	media.Get("/:mediaId", h.Media.Get)
	media.Delete("/:mediaId", h.Media.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/stats", h.Notification.GetStats)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
	notifications.Delete("/", h.Notification.DeleteAll)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/dashboard", h.Dashboard.GetStats)
	admin.Get("/audit/recent", h.Audit.GetRecentActivities)
	admin.Get("/audit/:entityType/:entityId", h.Audit.ListByEntity)

	adminProducts := admin.Group("/products")
	adminProducts.Post("/", h.Product.Create)
	adminProducts.Get("/", h.Product.List)
	adminProducts.Get("/:productId", h.Product.Get)
	adminProducts.Put("/:productId", h.Product.Update)
	adminProducts.Delete("/:productId", h.Product.Delete)

	adminOrders := admin.Group("/orders")
	adminOrders.Get("/", h.Order.List)
	adminOrders.Get("/:orderId", h.Order.Get)
	adminOrders.Post("/:orderId/quote", h.Order.Quote)
	adminOrders.Post("/:orderId/complete", h.Order.Complete)
	adminOrders.Post("/:orderId/cancel", h.Order.Cancel)
}
