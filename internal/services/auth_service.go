package services

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthClaims is the verified identity attached to every authenticated
// request. The services trust it as-is; only the middleware constructs it
// from a token.
type AuthClaims struct {
	UserID        uint64 `json:"userId"`
	UserName      string `json:"userName"`
	ClientID      uint64 `json:"clientId"`
	ClientName    string `json:"clientName"`
	IsMasterAdmin bool   `json:"isMasterAdmin"`
	jwt.RegisteredClaims
}

// AuthUser is the profile payload returned by login and /auth/me.
type AuthUser struct {
	UserID        uint64 `json:"userId"`
	UserName      string `json:"userName"`
	ClientID      uint64 `json:"clientId"`
	ClientName    string `json:"clientName"`
	IsMasterAdmin bool   `json:"isMasterAdmin"`
}

// LoginInput carries the credentials from the login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var errInvalidCredentials = &types.CustomError{
	Code:    401,
	Message: "Invalid credentials",
	Type:    "auth.login.credentials",
}

// Login authenticates an enabled user by email and password and returns the
// profile plus a signed session token. Unknown email and wrong password are
// indistinguishable to the caller.
func Login(db *gorm.DB, cfg *config.Config, in LoginInput) (*AuthUser, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", &types.CustomError{
			Code:    400,
			Message: "Email and password are required",
			Type:    "auth.validation.input",
		}
	}

	// Emails are stored lowercased, match them the same way
	var user models.User
	if err := db.Where("email = ? AND enabled = ?", strings.ToLower(in.Email), true).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	var client models.Client
	clientName := ""
	if err := db.First(&client, "client_id = ?", user.ClientID).Error; err == nil {
		clientName = client.ClientName
	}

	profile := &AuthUser{
		UserID:        user.UserID,
		UserName:      user.UserName,
		ClientID:      user.ClientID,
		ClientName:    clientName,
		IsMasterAdmin: user.IsMasterAdmin,
	}

	token, err := SignToken(cfg, profile)
	if err != nil {
		return nil, "", err
	}

	return profile, token, nil
}

// Me returns a fresh profile for the authenticated user. An account that
// was disabled after the token was issued no longer resolves.
func Me(db *gorm.DB, claims AuthClaims) (*AuthUser, error) {
	var user models.User
	if err := db.First(&user, "user_id = ? AND enabled = ?", claims.UserID, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &types.CustomError{
				Code:    404,
				Message: "User not found",
				Type:    "auth.me",
			}
		}
		return nil, err
	}

	var client models.Client
	clientName := ""
	if err := db.First(&client, "client_id = ?", user.ClientID).Error; err == nil {
		clientName = client.ClientName
	}

	return &AuthUser{
		UserID:        user.UserID,
		UserName:      user.UserName,
		ClientID:      user.ClientID,
		ClientName:    clientName,
		IsMasterAdmin: user.IsMasterAdmin,
	}, nil
}

// SignToken signs a session token for the given profile.
func SignToken(cfg *config.Config, u *AuthUser) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID:        u.UserID,
		UserName:      u.UserName,
		ClientID:      u.ClientID,
		ClientName:    u.ClientName,
		IsMasterAdmin: u.IsMasterAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpiryMinutes) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(cfg *config.Config, tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
