package services

import (
	"context"
	"testing"
	"time"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAdminService(db, newCatalog(db))
	user := createUser(t, db, "a@example.com")
	createUser(t, db, "b@example.com")
	space := createSpace(t, db, "Focus Room", true)

	b := insertBooking(t, db, user.ID, space.ID, day, "10:00", "12:00", models.BookingConfirmed)
	require.NoError(t, db.Model(&b).Update("credits_used", 2).Error)
	c := insertBooking(t, db, user.ID, space.ID, day, "13:00", "16:00", models.BookingCancelled)
	require.NoError(t, db.Model(&c).Update("credits_used", 3).Error)

	plan := createPlan(t, db, "Pro", "150.00", 40, true)
	require.NoError(t, db.Create(&models.Subscription{UserID: user.ID, PlanID: plan.ID, Status: models.SubscriptionActive}).Error)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ConfirmedBookings)
	assert.Equal(t, int64(2), stats.CreditsUsed)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.ActiveSubscriptions)
}

func TestAdminCancelSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAdminService(db, newCatalog(db))
	user := createUser(t, db, "a@example.com")
	plan := createPlan(t, db, "Pro", "150.00", 40, true)
	now := time.Now()
	active := models.Subscription{UserID: user.ID, PlanID: plan.ID, Status: models.SubscriptionActive, CurrentPeriodStart: &now}
	pending := models.Subscription{UserID: user.ID, PlanID: plan.ID, Status: models.SubscriptionPending}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&pending).Error)

	cancelled, err := svc.CancelSubscription(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, cancelled.Status)

	_, err = svc.CancelSubscription(context.Background(), pending.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotActive)

	subs, err := svc.ListSubscriptions(context.Background(), models.SubscriptionCancelled)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Plan)
	assert.Equal(t, "Pro", subs[0].Plan.Name)
}

func TestAdminCatalogCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAdminService(db, newCatalog(db))
	ctx := context.Background()

	_, err := svc.CreateSpace(ctx, &dto.SpaceRequest{})
	assert.ErrorIs(t, err, ErrNameRequired)

	space, err := svc.CreateSpace(ctx, &dto.SpaceRequest{
		Name:      "Board Room",
		Type:      "meeting-room",
		Capacity:  12,
		Price:     decimal.RequireFromString("95.50"),
		Available: boolPtr(false),
		Amenities: []string{"Screen"},
	})
	require.NoError(t, err)

	stored, err := newCatalog(db).GetSpace(ctx, space.ID)
	require.NoError(t, err)
	assert.False(t, stored.Available)
	assert.Equal(t, []string{"Screen"}, []string(stored.Amenities))

	updated, err := svc.UpdateSpace(ctx, space.ID, &dto.SpaceRequest{Name: "Board Room", Capacity: 14, Available: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.Capacity)
	assert.True(t, updated.Available)

	require.NoError(t, svc.DeleteSpace(ctx, space.ID))
	assert.ErrorIs(t, svc.DeleteSpace(ctx, space.ID), catalog.ErrSpaceNotFound)

	plan, err := svc.CreatePlan(ctx, &dto.PlanRequest{Name: "Night Owl", Price: decimal.NewFromInt(90), CreditsPerMonth: 20})
	require.NoError(t, err)
	assert.True(t, plan.IsActive)

	_, err = svc.UpdatePlan(ctx, plan.ID, &dto.PlanRequest{Name: "Night Owl", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	plan, err = svc.UpdatePlan(ctx, plan.ID, &dto.PlanRequest{Name: "Night Owl", Price: decimal.NewFromInt(90), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, plan.IsActive)

	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
}
