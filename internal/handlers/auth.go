package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles session routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Authenticate with email and password, sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} services.AuthUser
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.login.body")
	}

	user, token, err := services.Login(h.DB, h.Cfg, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "auth.login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.Cfg.JWTExpiryMinutes) * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clears the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return utils.MessageResponse(c, "Logged out")
}

// Me handles GET /api/auth/me
// @Summary Current session
// @Description Returns the profile for the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} services.AuthUser
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	user, err := services.Me(h.DB, claims)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "auth.me")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
