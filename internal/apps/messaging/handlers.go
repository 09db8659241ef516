package messaging

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ChatHandler handles HTTP requests for conversations.
type ChatHandler struct {
	service *ChatService
}

func NewChatHandler(service *ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": true, "message": message})
}

func chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotMember):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrSelfConversation),
		errors.Is(err, ErrMemberRequired),
		errors.Is(err, ErrGroupNameRequired),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrMessageTooLong):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		slog.Error("chat request failed", "path", c.Path(), "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// Create handles POST /api/conversations
func (h *ChatHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	conv, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(fiber.Map{"data": conv})
}

// List handles GET /api/conversations
func (h *ChatHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	convs, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(convs)
}

// Messages handles GET /api/conversations/:id/messages
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid conversation id")
	}
	msgs, err := h.service.Messages(c.UserContext(), userID, convID)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(msgs)
}

// Send handles POST /api/conversations/:id/messages
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid conversation id")
	}
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	msg, err := h.service.Send(c.UserContext(), userID, convID, req.Content)
	if err != nil {
		return chatError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// AdminList handles GET /api/admin/conversations
func (h *ChatHandler) AdminList(c *fiber.Ctx) error {
	convs, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(convs)
}
