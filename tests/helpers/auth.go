package helpers

import (
	"net/http"
	"testing"

	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
)

// TestConfig returns a config suitable for handler tests. No database
// settings; the tests open their own pools.
func TestConfig() *config.Config {
	return &config.Config{
		Port:             "3000",
		JWTSecret:        "test-secret-not-for-production",
		JWTExpiryMinutes: 60,
		ShareBaseURL:     "http://localhost:5173",
	}
}

// SessionCookie signs a session token for the user and returns it as a
// cookie ready to attach to a test request.
func SessionCookie(t *testing.T, cfg *config.Config, user *models.User, clientName string) *http.Cookie {
	t.Helper()

	token, err := services.SignToken(cfg, &services.AuthUser{
		UserID:        user.UserID,
		UserName:      user.UserName,
		ClientID:      user.ClientID,
		ClientName:    clientName,
		IsMasterAdmin: user.IsMasterAdmin,
	})
	if err != nil {
		t.Fatalf("Failed to sign session token: %v", err)
	}

	return &http.Cookie{Name: "token", Value: token}
}
