package services

import (
	"testing"
	"time"

	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func TestRegisterCreatesProfileAndPreferences(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: " New@Example.com ", Password: "password1", FullName: "Nour"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
	assert.Equal(t, "Nour", profile.FullName)

	var prefs models.NotificationPreferences
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&prefs).Error)
	assert.True(t, prefs.PaymentAlerts)

	_, err = svc.Register(&dto.RegisterRequest{Email: "new@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(&dto.RegisterRequest{Email: "short@example.com", Password: "123"})
	assert.Error(t, err)
}

func TestLoginRefreshLogout(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, testConfig())
	_, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(&dto.LoginRequest{Email: "A@example.com", Password: "password1"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: rotated.RefreshToken}))
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, testConfig())
	resp, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(resp.User.ID, ""), ErrPasswordRequired)
	assert.ErrorIs(t, svc.DeleteAccount(resp.User.ID, "nope-nope"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(resp.User.ID, "password1"))

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", resp.User.ID).Count(&profiles).Error)
	assert.Zero(t, profiles)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, testConfig())
	resp, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(resp.User.ID, &dto.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "short"}), ErrWeakPassword)
	assert.ErrorIs(t, svc.ChangePassword(resp.User.ID, &dto.ChangePasswordRequest{CurrentPassword: "wrong-one", NewPassword: "password2"}), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(resp.User.ID, &dto.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "password2"}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "password2"})
	assert.NoError(t, err)
}
