package dto

import (
	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
)

type ConflictResponse struct {
	Conflict bool `json:"conflict"`
}

// CreateBookingRequest accepts either an explicit end_time or a
// duration_hours; end_time wins when both are present.
type CreateBookingRequest struct {
	SpaceID       uuid.UUID `json:"space_id"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int       `json:"duration_hours"`
	Notes         string    `json:"notes"`
}

type BookingListResponse struct {
	Upcoming []models.Booking `json:"upcoming"`
	Past     []models.Booking `json:"past"`
}

type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type BookedSlotsResponse struct {
	SpaceID     uuid.UUID  `json:"space_id"`
	BookingDate string     `json:"booking_date"`
	Slots       []TimeSlot `json:"slots"`
}
