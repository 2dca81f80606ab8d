package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/pairlink/pairlink-backend/internal/cache"
	"github.com/pairlink/pairlink-backend/internal/handlers"
	"github.com/pairlink/pairlink-backend/internal/middleware"
	"github.com/pairlink/pairlink-backend/internal/presence"
	"github.com/pairlink/pairlink-backend/internal/push"
	"github.com/pairlink/pairlink-backend/internal/repository"
	"github.com/pairlink/pairlink-backend/internal/service"
	"github.com/pairlink/pairlink-backend/internal/storage"
	"github.com/pairlink/pairlink-backend/internal/validation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "PairLink Backend",
		// Attachment uploads plus multipart overhead.
		BodyLimit: int(validation.MaxAttachmentBytes()) + 2*1024*1024,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	inboxCache := cache.NewInboxCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)

	// In-memory presence is the authority; Redis only mirrors it for
	// operational visibility.
	tracker := presence.NewTracker()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	pushSubRepo := repository.NewPushSubscriptionRepository(db)

	// Initialize S3/MinIO storage (best-effort; attachment endpoints return 503 if missing)
	var fileStore *storage.FileStore
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		fileStore = storage.NewFileStore(st, validation.MaxAttachmentBytes())
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	// Web push is optional too: without VAPID keys offline recipients
	// simply get no notifications.
	var pushSender push.Sender
	if cfg, err := push.LoadVAPIDConfigFromEnv(); err != nil {
		log.Printf("WARNING: Web push not configured: %v", err)
	} else {
		pushSender = push.NewWebPushSender(cfg)
		log.Println("Web push sender initialized")
	}

	// Initialize services. The remover stays a true nil interface when
	// storage is off; a typed-nil *FileStore would defeat the service's
	// nil check.
	var attachmentRemover service.AttachmentRemover
	if fileStore != nil {
		attachmentRemover = fileStore
	}
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, tracker)
	messageService := service.NewMessageService(messageRepo, attachmentRemover, inboxCache)
	inboxService := service.NewInboxService(messageRepo, tracker, inboxCache)
	notificationService := service.NewNotificationService(pushSubRepo, pushSender, tracker)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(messageService, userService, notificationService, tracker, presenceCache)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, tracker)
	messageHandler := handlers.NewMessageHandler(messageService, inboxService, notificationService, wsHandler.GetHub())
	attachmentHandler := handlers.NewAttachmentHandler(fileStore)
	pushHandler := handlers.NewPushHandler(notificationService)

	// Public routes
	api := app.Group("/api")
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	api.Get("/users/:id/status", userHandler.GetUserStatus)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/users/me", userHandler.GetCurrentUser)
	protected.Get("/users/search", userHandler.SearchUsers)
	protected.Get("/conversations", messageHandler.GetConversations)
	protected.Get("/messages", messageHandler.GetMessages)
	protected.Post("/messages", messageHandler.SendMessage)
	protected.Get("/messages/search", messageHandler.SearchMessages)
	protected.Put("/messages/:id", messageHandler.EditMessage)
	protected.Delete("/messages/:id", messageHandler.DeleteMessage)
	protected.Post("/attachments", attachmentHandler.Upload)
	protected.Get("/attachments/*", attachmentHandler.Download)
	protected.Post("/push/subscriptions", pushHandler.Subscribe)
	protected.Delete("/push/subscriptions", pushHandler.Unsubscribe)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "PairLink is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
