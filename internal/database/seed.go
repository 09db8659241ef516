package database

import (
	"log/slog"

	"github.com/coworkhub/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var defaultPlans = []models.MembershipPlan{
	{Name: "Basic", Price: decimal.RequireFromString("0"), CreditsPerMonth: 5, Features: []string{"Hot desk access", "Community events"}, IsActive: true},
	{Name: "Pro", Price: decimal.RequireFromString("150.00"), CreditsPerMonth: 40, Features: []string{"Hot desk access", "Meeting rooms", "Printing"}, IsActive: true},
	{Name: "Premium", Price: decimal.RequireFromString("300.00"), CreditsPerMonth: 100, Features: []string{"Dedicated desk", "Meeting rooms", "Studio access", "Mail handling"}, IsActive: true},
}

var defaultSpaces = []models.Space{
	{Name: "Open Workspace", Type: "hot-desk", Location: "Ground Floor", Capacity: 40, Price: decimal.RequireFromString("25.00"), Available: true, Amenities: []string{"WiFi", "Coffee"}, OpenHours: "08:00 - 22:00"},
	{Name: "Focus Room", Type: "meeting-room", Location: "First Floor", Capacity: 6, Price: decimal.RequireFromString("80.00"), Available: true, Amenities: []string{"WiFi", "Whiteboard", "Screen"}, OpenHours: "08:00 - 22:00"},
	{Name: "Podcast Studio", Type: "studio", Location: "Basement", Capacity: 3, Price: decimal.RequireFromString("120.00"), Available: true, Amenities: []string{"Microphones", "Soundproofing"}, OpenHours: "10:00 - 20:00"},
}

// SeedCatalog inserts the default plans and spaces when their tables are empty.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MembershipPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		plans := append([]models.MembershipPlan(nil), defaultPlans...)
		if err := db.Create(&plans).Error; err != nil {
			return err
		}
		slog.Info("seeded membership plans", "count", len(plans))
	}

	if err := db.Model(&models.Space{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		spaces := append([]models.Space(nil), defaultSpaces...)
		if err := db.Create(&spaces).Error; err != nil {
			return err
		}
		slog.Info("seeded spaces", "count", len(spaces))
	}
	return nil
}
