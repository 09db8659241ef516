package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/events"
	"github.com/coworkhub/backend/internal/fawry"
	"github.com/coworkhub/backend/internal/middleware"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/services"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret = "test-secret"
	futureDay  = "2099-01-15"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	user  models.User
	token string
	space models.Space
}

func newTestEnv(t *testing.T, verifyWebhook bool) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: testSecret}

	user := models.User{Email: "member@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	space := models.Space{Name: "Focus Room", Type: "meeting-room", Capacity: 6, Price: decimal.NewFromInt(80), Available: true}
	require.NoError(t, db.Create(&space).Error)

	repo := catalog.NewRepository(db, catalog.NopCache{})
	notifications := services.NewNotificationService(db, nil)
	bookings := NewBookingHandler(services.NewBookingService(db, repo, events.NopPublisher{}, notifications, false))
	gateway := fawry.NewClientWithURL("merchant", "secure", "http://127.0.0.1:1/unreachable", time.Second)
	payments := NewPaymentHandler(services.NewPaymentService(db, gateway, repo, events.NopPublisher{}, notifications), "secure", verifyWebhook)

	app := fiber.New()
	jwtmw := middleware.JWTProtected(cfg)
	app.Get("/api/health", NewHealthHandler(db, nil).Check)
	app.Get("/api/spaces", NewCatalogHandler(repo).ListSpaces)
	app.Get("/api/spaces/:id", NewCatalogHandler(repo).GetSpace)
	app.Get("/api/bookings/conflict", jwtmw, bookings.Conflict)
	app.Post("/api/bookings", jwtmw, bookings.Create)
	app.Post("/api/payments/fawry", jwtmw, payments.Initiate)
	app.Post("/api/payments/webhook", payments.Webhook)
	app.Get("/api/payments/status", jwtmw, payments.Status)

	return &testEnv{app: app, db: db, user: user, token: bearer(t, user.ID), space: space}
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (e *testEnv) do(t *testing.T, method, path, body string, auth bool) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func conflictURL(spaceID uuid.UUID, start, end string) string {
	return "/api/bookings/conflict?space_id=" + spaceID.String() + "&date=" + futureDay + "&start_time=" + start + "&end_time=" + end
}

func TestConflictEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.db.Create(&models.Booking{
		UserID: env.user.ID, SpaceID: env.space.ID, BookingDate: futureDay,
		StartTime: "10:00", EndTime: "12:00", Status: models.BookingConfirmed,
	}).Error)

	resp, _ := env.do(t, "GET", conflictURL(env.space.ID, "11:00", "13:00"), "", false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, raw := env.do(t, "GET", conflictURL(env.space.ID, "11:00", "13:00"), "", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got dto.ConflictResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, got.Conflict)

	resp, raw = env.do(t, "GET", conflictURL(env.space.ID, "12:00", "14:00"), "", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.False(t, got.Conflict)

	resp, _ = env.do(t, "GET", conflictURL(env.space.ID, "14:00", "13:00"), "", true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/bookings/conflict?space_id=nope", "", true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateBookingReturnsConflict(t *testing.T) {
	env := newTestEnv(t, false)
	body := `{"space_id":"` + env.space.ID.String() + `","booking_date":"` + futureDay + `","start_time":"09:00","end_time":"11:00"}`

	resp, raw := env.do(t, "POST", "/api/bookings", body, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var created models.Booking
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, env.user.ID, created.UserID)
	assert.Equal(t, models.BookingConfirmed, created.Status)

	resp, _ = env.do(t, "POST", "/api/bookings", body, true)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestInitiatePaymentRejectsBadMobile(t *testing.T) {
	env := newTestEnv(t, false)
	body := `{"planId":"` + uuid.New().String() + `","customerName":"Member","customerMobile":"12345","paymentType":"qr"}`

	resp, raw := env.do(t, "POST", "/api/payments/fawry", body, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var got dto.PaymentErrorResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, services.ErrInvalidMobile.Error(), got.Error)

	var count int64
	require.NoError(t, env.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWebhookAcknowledgesAndValidates(t *testing.T) {
	env := newTestEnv(t, false)

	resp, _ := env.do(t, "POST", "/api/payments/webhook", `{"orderStatus":"PAID"}`, false)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, raw := env.do(t, "POST", "/api/payments/webhook", `{"merchantRefNum":"MRN-unknown","orderStatus":"PAID"}`, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ack dto.WebhookAck
	require.NoError(t, json.Unmarshal(raw, &ack))
	assert.True(t, ack.Success)
}

func TestWebhookSignatureRequiredWhenEnabled(t *testing.T) {
	env := newTestEnv(t, true)

	resp, _ := env.do(t, "POST", "/api/payments/webhook", `{"merchantRefNum":"MRN1","orderStatus":"PAID","messageSignature":"bogus"}`, false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	n := fawry.Notification{MerchantRefNum: "MRN1", OrderStatus: "PAID"}
	n.MessageSignature = fawry.NotificationSignature(&n, "secure")
	signed, err := json.Marshal(n)
	require.NoError(t, err)
	resp, _ = env.do(t, "POST", "/api/payments/webhook", string(signed), false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaymentStatusIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t, false)
	other := uuid.New()
	require.NoError(t, env.db.Create(&models.Payment{
		UserID: other, Amount: decimal.NewFromInt(150), MerchantRefNum: "MRN-other", Status: models.PaymentPending,
	}).Error)

	resp, _ := env.do(t, "GET", "/api/payments/status?merchantRefNum=MRN-other", "", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/payments/status", "", true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCatalogAndHealth(t *testing.T) {
	env := newTestEnv(t, false)

	resp, raw := env.do(t, "GET", "/api/spaces?type=meeting-room", "", false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var spaces []models.Space
	require.NoError(t, json.Unmarshal(raw, &spaces))
	require.Len(t, spaces, 1)
	assert.Equal(t, env.space.ID, spaces[0].ID)

	resp, _ = env.do(t, "GET", "/api/spaces/"+uuid.New().String(), "", false)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, raw = env.do(t, "GET", "/api/health", "", false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health.DB)
	assert.Equal(t, "disabled", health.Cache)
}
