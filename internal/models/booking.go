package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking reserves a space for the half-open hour range [StartTime, EndTime)
// on BookingDate. Times are "HH:00" wall-clock values, dates are YYYY-MM-DD.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SpaceID     uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_space_date,priority:1" json:"space_id"`
	SpaceName   string    `gorm:"size:255" json:"space_name"`
	BookingDate string    `gorm:"size:10;not null;index:idx_bookings_space_date,priority:2" json:"booking_date"`
	StartTime   string    `gorm:"size:5;not null" json:"start_time"`
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`
	Status      string    `gorm:"size:20;not null;default:'confirmed';index" json:"status"`
	CreditsUsed int       `gorm:"not null;default:0" json:"credits_used"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
