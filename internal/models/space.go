package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Space is a bookable desk, room or studio. Price is per hour.
type Space struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Type        string                      `gorm:"size:50;not null;index" json:"type"`
	Location    string                      `gorm:"size:255" json:"location"`
	Capacity    int                         `gorm:"not null;default:1" json:"capacity"`
	Price       decimal.Decimal             `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Available   bool                        `gorm:"not null;index" json:"available"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	Features    datatypes.JSONSlice[string] `json:"features"`
	Description string                      `gorm:"type:text" json:"description"`
	Image       string                      `gorm:"type:text" json:"image"`
	OpenHours   string                      `gorm:"size:100" json:"open_hours"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (s *Space) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
