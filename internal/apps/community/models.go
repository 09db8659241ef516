package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Expert is a mentor members can book sessions with.
type Expert struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Avatar      string                      `gorm:"type:text" json:"avatar"`
	Email       string                      `gorm:"size:255" json:"email"`
	LinkedIn    string                      `gorm:"column:linkedin;type:text" json:"linkedin"`
	Expertise   datatypes.JSONSlice[string] `json:"expertise"`
	HourlyRate  string                      `gorm:"size:50" json:"hourly_rate"`
	Rating      float64                     `gorm:"not null;default:0" json:"rating"`
	Sessions    int                         `gorm:"not null;default:0" json:"sessions"`
	IsAvailable bool                        `gorm:"not null;index" json:"is_available"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (e *Expert) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// StudentActivity is a student club hosted at the space.
type StudentActivity struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Category        string    `gorm:"size:100;not null;index" json:"category"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	LongDescription string    `gorm:"type:text" json:"long_description"`
	Logo            string    `gorm:"type:text" json:"logo"`
	Members         int       `gorm:"not null;default:0" json:"members"`
	Founded         string    `gorm:"size:10" json:"founded"`
	Website         string    `gorm:"type:text" json:"website"`
	Instagram       string    `gorm:"type:text" json:"instagram"`
	Email           string    `gorm:"size:255" json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a *StudentActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// MemberCard is the public slice of a profile shown in the directory.
type MemberCard struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	AvatarURL      string    `json:"avatar_url"`
	MembershipType string    `json:"membership_type"`
}
