package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back-office endpoints. Booking moderation lives on
// BookingHandler.
type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func adminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrSpaceNotFound),
		errors.Is(err, catalog.ErrPlanNotFound),
		errors.Is(err, services.ErrSubscriptionMissing):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSubscriptionNotActive),
		errors.Is(err, services.ErrNameRequired):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		slog.Error("admin request failed", "path", c.Path(), "error", err)
		return internalError(c)
	}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	profiles, err := h.adminService.ListProfiles(c.UserContext())
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(profiles)
}

func (h *AdminHandler) ListSubscriptions(c *fiber.Ctx) error {
	subs, err := h.adminService.ListSubscriptions(c.UserContext(), c.Query("status"))
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(subs)
}

func (h *AdminHandler) CancelSubscription(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	sub, err := h.adminService.CancelSubscription(c.UserContext(), id)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(sub)
}

func (h *AdminHandler) ListSpaces(c *fiber.Ctx) error {
	spaces, err := h.adminService.ListSpaces(c.UserContext())
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(spaces)
}

func (h *AdminHandler) CreateSpace(c *fiber.Ctx) error {
	var req dto.SpaceRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	space, err := h.adminService.CreateSpace(c.UserContext(), &req)
	if err != nil {
		return adminError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(space)
}

func (h *AdminHandler) UpdateSpace(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	var req dto.SpaceRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	space, err := h.adminService.UpdateSpace(c.UserContext(), id, &req)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(space)
}

func (h *AdminHandler) DeleteSpace(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.adminService.DeleteSpace(c.UserContext(), id); err != nil {
		return adminError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.adminService.ListPlans(c.UserContext())
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(plans)
}

func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	plan, err := h.adminService.CreatePlan(c.UserContext(), &req)
	if err != nil {
		return adminError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *AdminHandler) UpdatePlan(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	plan, err := h.adminService.UpdatePlan(c.UserContext(), id, &req)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(plan)
}

func (h *AdminHandler) DeletePlan(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.adminService.DeletePlan(c.UserContext(), id); err != nil {
		return adminError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
