package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	profile, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		slog.Error("get profile failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.profileService.Update(c.UserContext(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("update profile failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(profile)
}
