package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public space and plan listings.
type CatalogHandler struct {
	catalog catalog.Reader
}

func NewCatalogHandler(reader catalog.Reader) *CatalogHandler {
	return &CatalogHandler{catalog: reader}
}

func (h *CatalogHandler) ListSpaces(c *fiber.Ctx) error {
	spaces, err := h.catalog.ListSpaces(c.UserContext(), catalog.SpaceFilter{
		Type:          c.Query("type"),
		AvailableOnly: c.QueryBool("available", false),
	})
	if err != nil {
		slog.Error("list spaces failed", "error", err)
		return internalError(c)
	}
	return c.JSON(spaces)
}

func (h *CatalogHandler) GetSpace(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	space, err := h.catalog.GetSpace(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrSpaceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("get space failed", "error", err)
		return internalError(c)
	}
	return c.JSON(space)
}

func (h *CatalogHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.catalog.ListActivePlans(c.UserContext())
	if err != nil {
		slog.Error("list plans failed", "error", err)
		return internalError(c)
	}
	return c.JSON(plans)
}
