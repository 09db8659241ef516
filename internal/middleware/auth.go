package middleware

import (
	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected accepts HS256 access tokens signed with the configured secret
// whose subject is a member ID.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{JWTAlg: "HS256", Key: []byte(cfg.JWTSecret)},
		SuccessHandler: requireMember,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Get(fiber.HeaderAuthorization) == "" {
				return unauthorized(c, "Missing bearer token")
			}
			return unauthorized(c, "Invalid or expired token")
		},
	})
}

func requireMember(c *fiber.Ctx) error {
	if _, err := identity.GetUserID(c); err != nil {
		return unauthorized(c, "Invalid token subject")
	}
	return c.Next()
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: message})
}
