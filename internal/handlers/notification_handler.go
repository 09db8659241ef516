package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := h.notificationService.List(c.UserContext(), userID, limit)
	if err != nil {
		slog.Error("list notifications failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(items)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	n, err := h.notificationService.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(dto.UnreadCountResponse{Unread: n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.notificationService.MarkRead(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	if err := h.notificationService.MarkAllRead(c.UserContext(), userID); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.notificationService.Delete(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) GetPreferences(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	prefs, err := h.notificationService.GetPreferences(c.UserContext(), userID)
	if err != nil {
		slog.Error("get preferences failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(prefs)
}

func (h *NotificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	prefs, err := h.notificationService.UpdatePreferences(c.UserContext(), userID, &req)
	if err != nil {
		slog.Error("update preferences failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(prefs)
}

func (h *NotificationHandler) RegisterDevice(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	var req dto.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	device, err := h.notificationService.RegisterDevice(c.UserContext(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDeviceToken) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

func (h *NotificationHandler) UnregisterDevice(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	if err := h.notificationService.UnregisterDevice(c.UserContext(), userID, c.Params("token")); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
