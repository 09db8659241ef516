package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationPayment   = "payment"
	NotificationBooking   = "booking"
	NotificationCommunity = "community"
	NotificationSystem    = "system"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:30;not null;default:'system'" json:"type"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	ActionURL string    `gorm:"type:text" json:"action_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	assignID(&n.ID)
	return nil
}

type NotificationPreferences struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	EmailNotifications bool      `gorm:"not null;default:true" json:"email_notifications"`
	PushNotifications  bool      `gorm:"not null;default:true" json:"push_notifications"`
	BookingReminders   bool      `gorm:"not null;default:true" json:"booking_reminders"`
	PaymentAlerts      bool      `gorm:"not null;default:true" json:"payment_alerts"`
	CommunityUpdates   bool      `gorm:"not null;default:true" json:"community_updates"`
	MarketingEmails    bool      `gorm:"not null;default:false" json:"marketing_emails"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *NotificationPreferences) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// DefaultPreferences mirrors the column defaults so a preferences row can be
// created explicitly without relying on database defaults for false values.
func DefaultPreferences(userID uuid.UUID) NotificationPreferences {
	return NotificationPreferences{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		BookingReminders:   true,
		PaymentAlerts:      true,
		CommunityUpdates:   true,
	}
}

// Device is an Expo push token registered by a mobile client.
type Device struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	Platform  string    `gorm:"size:20" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
