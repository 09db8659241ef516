package middleware

import (
	"strings"

	"github.com/coworkhub/backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the configured origins. CORS_ORIGINS may carry spaces after
// the commas; an empty list means any origin.
func CORS(cfg *config.Config) fiber.Handler {
	origins := strings.Join(parseCSV(cfg.CORSOrigins), ",")
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Authorization, Accept, X-Admin-Token",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		ExposeHeaders: "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After",
		MaxAge:        600,
	})
}

// SecureHeaders sets the browser hardening headers on every response.
func SecureHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	}
}
