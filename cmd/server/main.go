package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"

	"github.com/coworkhub/backend/internal/apps"
	"github.com/coworkhub/backend/internal/apps/community"
	"github.com/coworkhub/backend/internal/apps/messaging"
	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/database"
	"github.com/coworkhub/backend/internal/events"
	"github.com/coworkhub/backend/internal/fawry"
	"github.com/coworkhub/backend/internal/handlers"
	"github.com/coworkhub/backend/internal/logging"
	"github.com/coworkhub/backend/internal/metrics"
	"github.com/coworkhub/backend/internal/middleware"
	"github.com/coworkhub/backend/internal/notify"
	"github.com/coworkhub/backend/internal/routes"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup(slog.LevelInfo)

	cfg := config.Load()
	logLevel := logging.ParseLevel(cfg.LogLevel)
	logging.Setup(logLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateCore(); err != nil {
		slog.Error("core migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedCatalog(database.DB); err != nil {
		slog.Error("catalog seed failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.Sink{Handler: logging.NewStdoutHandler(logLevel)},
		logging.Sink{Handler: pgLogHandler, Level: slog.LevelError},
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Catalog cache
	var rdb redis.UniversalClient
	var cache catalog.Cache = catalog.NopCache{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		rdb = client
		cache = catalog.NewRedisCache(client, cfg.CatalogCacheTTL)
		slog.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL.String())
	}
	catalogRepo := catalog.NewRepository(database.DB, cache)

	// Notification channels, each enabled by its own settings
	var pusher notify.Pusher = notify.NewExpoPusher()
	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}
	var realtime notify.Realtime
	if cfg.PubNubPublishKey != "" {
		realtime = notify.NewPubNubRealtime(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey)
	}
	dispatcher := notify.NewDispatcher(pusher, mailer, realtime)

	// Domain events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("event publisher unavailable, events disabled", "error", err)
		} else {
			publisher = p
		}
	}

	// Services
	notificationService := services.NewNotificationService(database.DB, dispatcher)
	authService := services.NewAuthService(database.DB, cfg)
	bookingService := services.NewBookingService(database.DB, catalogRepo, publisher, notificationService, cfg.BookingConflictFailOpen)
	paymentService := services.NewPaymentService(database.DB, fawry.NewClient(cfg), catalogRepo, publisher, notificationService)
	profileService := services.NewProfileService(database.DB)
	adminService := services.NewAdminService(database.DB, catalogRepo)

	// Feature modules
	plugins := []apps.Plugin{
		messaging.New(),
		community.New(),
	}
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Handlers
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(database.DB, rdb),
		Legal:        handlers.NewLegalHandler(cfg.AppName, cfg.SupportEmail),
		Catalog:      handlers.NewCatalogHandler(catalogRepo),
		Booking:      handlers.NewBookingHandler(bookingService),
		Payment:      handlers.NewPaymentHandler(paymentService, cfg.FawrySecureKey, cfg.FawryVerifyWebhook),
		Profile:      handlers.NewProfileHandler(profileService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Admin:        handlers.NewAdminHandler(adminService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(metrics.Middleware())
	app.Use(middleware.SecureHeaders())

	deps := apps.Deps{
		DB:         database.DB,
		Config:     cfg,
		Dispatcher: dispatcher,
	}
	routes.Setup(app, cfg, database.DB, h, plugins, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := publisher.Close(); err != nil {
		slog.Error("event publisher close error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
