package community

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DirectoryHandler handles HTTP requests for the community tab.
type DirectoryHandler struct {
	service *DirectoryService
}

func NewDirectoryHandler(service *DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Not found"})
	case errors.Is(err, ErrNameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	default:
		slog.Error("community request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Internal server error"})
	}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid id"})
	}
	return id, nil
}

// Members handles GET /api/community/members
func (h *DirectoryHandler) Members(c *fiber.Ctx) error {
	viewer, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	cards, err := h.service.Members(c.UserContext(), viewer, c.Query("q"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cards)
}

// Experts handles GET /api/community/experts
func (h *DirectoryHandler) Experts(c *fiber.Ctx) error {
	experts, err := h.service.Experts(c.UserContext(), c.Query("q"), c.QueryBool("available", false))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(experts)
}

// Expert handles GET /api/community/experts/:id
func (h *DirectoryHandler) Expert(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	e, err := h.service.Expert(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(e)
}

// Activities handles GET /api/community/activities
func (h *DirectoryHandler) Activities(c *fiber.Ctx) error {
	items, err := h.service.Activities(c.UserContext(), c.Query("category"), c.Query("q"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(items)
}

// Activity handles GET /api/community/activities/:id
func (h *DirectoryHandler) Activity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	a, err := h.service.Activity(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(a)
}

// CreateExpert handles POST /api/admin/experts
func (h *DirectoryHandler) CreateExpert(c *fiber.Ctx) error {
	e := Expert{IsAvailable: true}
	if err := c.BodyParser(&e); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	e.ID = uuid.Nil
	if err := h.service.SaveExpert(c.UserContext(), &e); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

// UpdateExpert handles PUT /api/admin/experts/:id
func (h *DirectoryHandler) UpdateExpert(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	e, err := h.service.Expert(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	if err := c.BodyParser(e); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	e.ID = id
	if err := h.service.SaveExpert(c.UserContext(), e); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(e)
}

// DeleteExpert handles DELETE /api/admin/experts/:id
func (h *DirectoryHandler) DeleteExpert(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	if err := h.service.DeleteExpert(c.UserContext(), id); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateActivity handles POST /api/admin/activities
func (h *DirectoryHandler) CreateActivity(c *fiber.Ctx) error {
	var a StudentActivity
	if err := c.BodyParser(&a); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	a.ID = uuid.Nil
	if err := h.service.SaveActivity(c.UserContext(), &a); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// UpdateActivity handles PUT /api/admin/activities/:id
func (h *DirectoryHandler) UpdateActivity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	a, err := h.service.Activity(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	if err := c.BodyParser(a); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	a.ID = id
	if err := h.service.SaveActivity(c.UserContext(), a); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(a)
}

// DeleteActivity handles DELETE /api/admin/activities/:id
func (h *DirectoryHandler) DeleteActivity(c *fiber.Ctx) error {
	id, err := parseID(c)
	if id == uuid.Nil {
		return err
	}
	if err := h.service.DeleteActivity(c.UserContext(), id); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
