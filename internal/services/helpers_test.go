package services

import (
	"context"
	"testing"
	"time"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/fawry"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2030, time.January, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID, FullName: "Test Member"}).Error)
	return user
}

func createSpace(t *testing.T, db *gorm.DB, name string, available bool) models.Space {
	t.Helper()
	space := models.Space{Name: name, Type: "meeting-room", Capacity: 6, Price: decimal.NewFromInt(80), Available: available}
	require.NoError(t, db.Create(&space).Error)
	return space
}

func createPlan(t *testing.T, db *gorm.DB, name, price string, credits int, active bool) models.MembershipPlan {
	t.Helper()
	plan := models.MembershipPlan{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		CreditsPerMonth: credits,
		IsActive:        active,
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func insertBooking(t *testing.T, db *gorm.DB, userID, spaceID uuid.UUID, date, start, end, status string) models.Booking {
	t.Helper()
	b := models.Booking{
		UserID:      userID,
		SpaceID:     spaceID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Charge(ctx context.Context, ch fawry.Charge) (*fawry.ChargeResponse, error) {
	args := m.Called(ch.Amount.StringFixed(2), ch.CustomerMobile, ch.PaymentType)
	resp, _ := args.Get(0).(*fawry.ChargeResponse)
	return resp, args.Error(1)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) Push(ctx context.Context, tokens []string, msg notify.Message) ([]string, error) {
	args := m.Called(tokens, msg.Title)
	invalid, _ := args.Get(0).([]string)
	return invalid, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(to, subject).Error(0)
}

func newCatalog(db *gorm.DB) *catalog.Repository {
	return catalog.NewRepository(db, nil)
}
