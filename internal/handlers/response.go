package handlers

import (
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func internalError(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// callerID resolves the authenticated user. ok is false when a 401 has
// already been written.
func callerID(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil, false, errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, true, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, errorJSON(c, fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, true, nil
}
