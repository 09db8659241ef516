package services

import (
	"context"
	"testing"

	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/notify"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestNotifyHonoursCategoryPreferences(t *testing.T) {
	db := testutil.NewDB(t)
	push, mail := &mockPusher{}, &mockMailer{}
	svc := NewNotificationService(db, notify.NewDispatcher(push, mail, nil))
	ctx := context.Background()
	user := createUser(t, db, "member@example.com")

	_, err := svc.RegisterDevice(ctx, user.ID, &dto.RegisterDeviceRequest{Token: "ExponentPushToken[abc]", Platform: "ios"})
	require.NoError(t, err)
	_, err = svc.UpdatePreferences(ctx, user.ID, &dto.UpdatePreferencesRequest{PaymentAlerts: boolPtr(false)})
	require.NoError(t, err)

	require.NoError(t, svc.Notify(ctx, &models.Notification{UserID: user.ID, Title: "Receipt", Message: "paid", Type: models.NotificationPayment}))
	push.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	push.On("Push", []string{"ExponentPushToken[abc]"}, "Booking Confirmed").Return(nil, nil)
	mail.On("Send", "member@example.com", "Booking Confirmed").Return(nil)
	require.NoError(t, svc.Notify(ctx, &models.Notification{UserID: user.ID, Title: "Booking Confirmed", Message: "see you", Type: models.NotificationBooking}))
	push.AssertExpectations(t)
	mail.AssertExpectations(t)

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestNotifyRespectsChannelSwitches(t *testing.T) {
	db := testutil.NewDB(t)
	push, mail := &mockPusher{}, &mockMailer{}
	svc := NewNotificationService(db, notify.NewDispatcher(push, mail, nil))
	ctx := context.Background()
	user := createUser(t, db, "member@example.com")

	_, err := svc.RegisterDevice(ctx, user.ID, &dto.RegisterDeviceRequest{Token: "ExponentPushToken[abc]"})
	require.NoError(t, err)
	_, err = svc.UpdatePreferences(ctx, user.ID, &dto.UpdatePreferencesRequest{
		PushNotifications:  boolPtr(false),
		EmailNotifications: boolPtr(true),
	})
	require.NoError(t, err)

	mail.On("Send", "member@example.com", "Hello").Return(nil)
	require.NoError(t, svc.Notify(ctx, &models.Notification{UserID: user.ID, Title: "Hello", Message: "hi"}))
	push.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	mail.AssertExpectations(t)
}

func TestDeliverPrunesInvalidTokens(t *testing.T) {
	db := testutil.NewDB(t)
	push := &mockPusher{}
	svc := NewNotificationService(db, notify.NewDispatcher(push, nil, nil))
	ctx := context.Background()
	user := createUser(t, db, "member@example.com")

	for _, tok := range []string{"ExponentPushToken[good]", "stale"} {
		_, err := svc.RegisterDevice(ctx, user.ID, &dto.RegisterDeviceRequest{Token: tok})
		require.NoError(t, err)
	}
	push.On("Push", mock.Anything, "Hello").Return([]string{"stale"}, nil)

	require.NoError(t, svc.Notify(ctx, &models.Notification{UserID: user.ID, Title: "Hello", Message: "hi"}))

	var tokens []string
	require.NoError(t, db.Model(&models.Device{}).Where("user_id = ?", user.ID).Pluck("token", &tokens).Error)
	assert.Equal(t, []string{"ExponentPushToken[good]"}, tokens)
}

func TestNotificationInbox(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	first := &models.Notification{UserID: user.ID, Title: "One", Message: "1"}
	second := &models.Notification{UserID: user.ID, Title: "Two", Message: "2", Type: models.NotificationCommunity}
	require.NoError(t, svc.Notify(ctx, first))
	require.NoError(t, svc.Notify(ctx, second))
	assert.Equal(t, models.NotificationSystem, first.Type)

	items, err := svc.List(ctx, user.ID, 50)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, first.ID), ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(ctx, user.ID, first.ID))
	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))
	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID, uuid.New()), ErrNotificationNotFound)
	require.NoError(t, svc.Delete(ctx, user.ID, second.ID))
	items, err = svc.List(ctx, user.ID, 50)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPreferencesDefaultsAndUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()
	userID := uuid.New()

	prefs, err := svc.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.True(t, prefs.PushNotifications)
	assert.True(t, prefs.BookingReminders)
	assert.False(t, prefs.MarketingEmails)

	prefs, err = svc.UpdatePreferences(ctx, userID, &dto.UpdatePreferencesRequest{
		BookingReminders: boolPtr(false),
		MarketingEmails:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.False(t, prefs.BookingReminders)
	assert.True(t, prefs.MarketingEmails)
	assert.True(t, prefs.PaymentAlerts)
}

func TestRegisterDeviceReassignsToken(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	_, err := svc.RegisterDevice(ctx, first, &dto.RegisterDeviceRequest{Token: "tok", Platform: "ios"})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, second, &dto.RegisterDeviceRequest{Token: "tok", Platform: "android"})
	require.NoError(t, err)

	var devices []models.Device
	require.NoError(t, db.Find(&devices).Error)
	require.Len(t, devices, 1)
	assert.Equal(t, second, devices[0].UserID)
	assert.Equal(t, "android", devices[0].Platform)

	_, err = svc.RegisterDevice(ctx, first, &dto.RegisterDeviceRequest{})
	assert.ErrorIs(t, err, ErrInvalidDeviceToken)

	require.NoError(t, svc.UnregisterDevice(ctx, second, "tok"))
	var count int64
	require.NoError(t, db.Model(&models.Device{}).Count(&count).Error)
	assert.Zero(t, count)
}
