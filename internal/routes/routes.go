package routes

import (
	"time"

	"github.com/coworkhub/backend/internal/apps"
	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/handlers"
	"github.com/coworkhub/backend/internal/metrics"
	"github.com/coworkhub/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Handlers groups the core HTTP handlers mounted under /api.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Legal        *handlers.LegalHandler
	Catalog      *handlers.CatalogHandler
	Booking      *handlers.BookingHandler
	Payment      *handlers.PaymentHandler
	Profile      *handlers.ProfileHandler
	Notification *handlers.NotificationHandler
	Admin        *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, plugins []apps.Plugin, deps apps.Deps) {
	app.Get("/metrics", metrics.Handler())

	// Legal pages
	app.Get("/privacy", h.Legal.PrivacyPolicy)
	app.Get("/terms", h.Legal.TermsOfService)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTProtected(cfg)

	// JWT is applied per route so public routes stay reachable
	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Patch("/auth/password", jwt, h.Auth.ChangePassword)
	api.Delete("/auth/account", jwt, h.Auth.DeleteAccount)

	// Catalog (public)
	api.Get("/spaces", h.Catalog.ListSpaces)
	api.Get("/spaces/:id", h.Catalog.GetSpace)
	api.Get("/membership/plans", h.Catalog.ListPlans)

	// Gateway callback, authenticated by signature when enabled
	api.Post("/payments/webhook", h.Payment.Webhook)

	// Bookings
	api.Get("/bookings/conflict", jwt, h.Booking.Conflict)
	api.Get("/bookings/booked-slots", jwt, h.Booking.BookedSlots)
	api.Get("/bookings", jwt, h.Booking.ListMine)
	api.Post("/bookings", jwt, h.Booking.Create)
	api.Patch("/bookings/:id/cancel", jwt, h.Booking.Cancel)

	// Payments and membership
	api.Post("/payments/fawry", jwt, h.Payment.Initiate)
	api.Get("/payments/status", jwt, h.Payment.Status)
	api.Get("/membership/current", jwt, h.Payment.CurrentSubscription)

	// Profile
	api.Get("/profile", jwt, h.Profile.Get)
	api.Patch("/profile", jwt, h.Profile.Update)

	// Notifications
	api.Get("/notifications", jwt, h.Notification.List)
	api.Get("/notifications/unread-count", jwt, h.Notification.UnreadCount)
	api.Patch("/notifications/read-all", jwt, h.Notification.MarkAllRead)
	api.Patch("/notifications/:id/read", jwt, h.Notification.MarkRead)
	api.Delete("/notifications/:id", jwt, h.Notification.Delete)
	api.Get("/notifications/preferences", jwt, h.Notification.GetPreferences)
	api.Put("/notifications/preferences", jwt, h.Notification.UpdatePreferences)
	api.Post("/devices", jwt, h.Notification.RegisterDevice)
	api.Delete("/devices/:token", jwt, h.Notification.UnregisterDevice)

	// Admin back-office (protected + admin required)
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Get("/subscriptions", h.Admin.ListSubscriptions)
	admin.Patch("/subscriptions/:id/cancel", h.Admin.CancelSubscription)

	admin.Get("/bookings", h.Booking.AdminList)
	admin.Patch("/bookings/:id/status", h.Booking.AdminSetStatus)
	admin.Patch("/bookings/:id/confirm", h.Booking.AdminConfirm)
	admin.Patch("/bookings/:id/complete", h.Booking.AdminComplete)
	admin.Patch("/bookings/:id/cancel", h.Booking.AdminCancel)
	admin.Delete("/bookings/:id", h.Booking.AdminDelete)

	admin.Get("/spaces", h.Admin.ListSpaces)
	admin.Post("/spaces", h.Admin.CreateSpace)
	admin.Put("/spaces/:id", h.Admin.UpdateSpace)
	admin.Delete("/spaces/:id", h.Admin.DeleteSpace)
	admin.Get("/plans", h.Admin.ListPlans)
	admin.Post("/plans", h.Admin.CreatePlan)
	admin.Put("/plans/:id", h.Admin.UpdatePlan)
	admin.Delete("/plans/:id", h.Admin.DeletePlan)

	// Feature modules share a JWT-protected group
	protected := api.Group("", jwt)
	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}
