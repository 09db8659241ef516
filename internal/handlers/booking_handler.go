package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// bookingError maps booking service errors to responses.
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrBookingConflict):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrAvailabilityUnknown):
		slog.Error("booking availability check failed", "error", err)
		return errorJSON(c, fiber.StatusServiceUnavailable, services.ErrAvailabilityUnknown.Error())
	case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, catalog.ErrSpaceNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidBookingTime),
		errors.Is(err, services.ErrInvalidBookingRange),
		errors.Is(err, services.ErrInvalidBookingDate),
		errors.Is(err, services.ErrBookingInPast),
		errors.Is(err, services.ErrSpaceUnavailable),
		errors.Is(err, services.ErrBookingNotCancelable),
		errors.Is(err, services.ErrInvalidBookingStatus):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		slog.Error("booking request failed", "error", err)
		return internalError(c)
	}
}

// Conflict answers GET /bookings/conflict.
func (h *BookingHandler) Conflict(c *fiber.Ctx) error {
	spaceID, err := uuid.Parse(c.Query("space_id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid space_id")
	}

	conflict, err := h.bookingService.HasConflict(c.UserContext(), spaceID,
		c.Query("date"), c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(dto.ConflictResponse{Conflict: conflict})
}

func (h *BookingHandler) BookedSlots(c *fiber.Ctx) error {
	spaceID, err := uuid.Parse(c.Query("space_id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid space_id")
	}
	resp, err := h.bookingService.BookedSlots(c.UserContext(), spaceID, c.Query("date"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(resp)
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.SpaceID == uuid.Nil {
		return errorJSON(c, fiber.StatusBadRequest, "space_id is required")
	}

	booking, err := h.bookingService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return bookingError(c, err)
	}
	slog.Info("booking created", "booking_id", booking.ID.String(), "user_id", userID.String())
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	resp, err := h.bookingService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(resp)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	booking, err := h.bookingService.Cancel(c.UserContext(), userID, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(booking)
}

// --- admin ---

func (h *BookingHandler) AdminList(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListAll(c.UserContext(), c.Query("status"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(bookings)
}

type setBookingStatusRequest struct {
	Status string `json:"status"`
}

// AdminSetStatus handles PATCH /admin/bookings/:id with {"status": ...}.
func (h *BookingHandler) AdminSetStatus(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	var req setBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	booking, err := h.bookingService.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) AdminConfirm(c *fiber.Ctx) error {
	return h.adminTransition(c, models.BookingConfirmed)
}

func (h *BookingHandler) AdminComplete(c *fiber.Ctx) error {
	return h.adminTransition(c, models.BookingCompleted)
}

func (h *BookingHandler) AdminCancel(c *fiber.Ctx) error {
	return h.adminTransition(c, models.BookingCancelled)
}

func (h *BookingHandler) adminTransition(c *fiber.Ctx, status string) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	booking, err := h.bookingService.SetStatus(c.UserContext(), id, status)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) AdminDelete(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	if err := h.bookingService.Delete(c.UserContext(), id); err != nil {
		return bookingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
