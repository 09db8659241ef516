package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidDeviceToken   = errors.New("device token is required")
)

type NotificationService struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
}

func NewNotificationService(db *gorm.DB, dispatcher *notify.Dispatcher) *NotificationService {
	return &NotificationService{db: db, dispatcher: dispatcher}
}

// Record inserts a notification using tx, so callers can make it part of a
// larger transaction. Deliver must be called after commit.
func (s *NotificationService) Record(tx *gorm.DB, n *models.Notification) error {
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}
	return tx.Create(n).Error
}

// Notify records and delivers in one step.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.Record(s.db.WithContext(ctx), n); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	s.Deliver(ctx, n)
	return nil
}

// Deliver pushes a stored notification to the member's devices and inbox,
// honouring their preferences for its category.
func (s *NotificationService) Deliver(ctx context.Context, n *models.Notification) {
	if s.dispatcher == nil {
		return
	}

	prefs, err := s.GetPreferences(ctx, n.UserID)
	if err != nil {
		slog.Error("load notification preferences failed", "user_id", n.UserID.String(), "error", err)
		return
	}

	target := notify.Target{}
	if categoryEnabled(prefs, n.Type) {
		target.Push = prefs.PushNotifications
		target.Mail = prefs.EmailNotifications
	}

	if target.Push {
		var tokens []string
		if err := s.db.WithContext(ctx).Model(&models.Device{}).Where("user_id = ?", n.UserID).Pluck("token", &tokens).Error; err != nil {
			slog.Warn("load devices failed", "user_id", n.UserID.String(), "error", err)
		}
		target.DeviceTokens = tokens
	}
	if target.Mail {
		var user models.User
		if err := s.db.WithContext(ctx).Select("id", "email").First(&user, "id = ?", n.UserID).Error; err == nil {
			target.Email = user.Email
		}
	}

	data := map[string]string{"notification_id": n.ID.String(), "type": n.Type}
	if n.ActionURL != "" {
		data["action_url"] = n.ActionURL
	}

	invalid := s.dispatcher.Deliver(ctx, target, notify.Message{
		UserID: n.UserID,
		Title:  n.Title,
		Body:   n.Message,
		Type:   n.Type,
		Data:   data,
	})
	if len(invalid) > 0 {
		if err := s.db.WithContext(ctx).Where("token IN ?", invalid).Delete(&models.Device{}).Error; err != nil {
			slog.Warn("prune invalid device tokens failed", "error", err)
		}
	}
}

func categoryEnabled(p *models.NotificationPreferences, kind string) bool {
	switch kind {
	case models.NotificationPayment:
		return p.PaymentAlerts
	case models.NotificationBooking:
		return p.BookingReminders
	case models.NotificationCommunity:
		return p.CommunityUpdates
	default:
		return true
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	var items []models.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// GetPreferences returns the member's preferences, creating the defaults on
// first access.
func (s *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prefs = models.DefaultPreferences(userID)
		if err := s.db.WithContext(ctx).Create(&prefs).Error; err != nil {
			return nil, fmt.Errorf("create default preferences: %w", err)
		}
		return &prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *dto.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(col string, v *bool) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("email_notifications", req.EmailNotifications)
	set("push_notifications", req.PushNotifications)
	set("booking_reminders", req.BookingReminders)
	set("payment_alerts", req.PaymentAlerts)
	set("community_updates", req.CommunityUpdates)
	set("marketing_emails", req.MarketingEmails)

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(prefs).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update preferences: %w", err)
		}
	}
	return s.GetPreferences(ctx, userID)
}

// RegisterDevice stores a push token. A token moving to another account is
// reassigned.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *dto.RegisterDeviceRequest) (*models.Device, error) {
	if req.Token == "" {
		return nil, ErrInvalidDeviceToken
	}

	var device models.Device
	err := s.db.WithContext(ctx).Where("token = ?", req.Token).First(&device).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = models.Device{UserID: userID, Token: req.Token, Platform: req.Platform}
		if err := s.db.WithContext(ctx).Create(&device).Error; err != nil {
			return nil, fmt.Errorf("register device: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("register device: %w", err)
	default:
		if err := s.db.WithContext(ctx).Model(&device).Updates(map[string]interface{}{
			"user_id":  userID,
			"platform": req.Platform,
		}).Error; err != nil {
			return nil, fmt.Errorf("register device: %w", err)
		}
	}
	return &device, nil
}

func (s *NotificationService) UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error {
	return s.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, token).Delete(&models.Device{}).Error
}
