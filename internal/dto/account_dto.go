package dto

import (
	"github.com/shopspring/decimal"
)

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type UpdatePreferencesRequest struct {
	EmailNotifications *bool `json:"email_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
	BookingReminders   *bool `json:"booking_reminders"`
	PaymentAlerts      *bool `json:"payment_alerts"`
	CommunityUpdates   *bool `json:"community_updates"`
	MarketingEmails    *bool `json:"marketing_emails"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type AdminStatsResponse struct {
	ConfirmedBookings   int64 `json:"confirmed_bookings"`
	CreditsUsed         int64 `json:"credits_used"`
	Users               int64 `json:"users"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
}

type SpaceRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Location    string          `json:"location"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
	Amenities   []string        `json:"amenities"`
	Features    []string        `json:"features"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	OpenHours   string          `json:"open_hours"`
}

type PlanRequest struct {
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	CreditsPerMonth int             `json:"credits_per_month"`
	Features        []string        `json:"features"`
	IsActive        *bool           `json:"is_active"`
}
