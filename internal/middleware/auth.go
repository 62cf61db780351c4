package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
)

// UserContextKey is where verified claims live in the request context.
const UserContextKey = "user"

// RequireAuth verifies the session cookie and stores the claims in the
// request context. Everything behind it can trust c.Locals("user").
func RequireAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("token")
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Authentication token not provided",
				Type:    "auth.token.missing",
			}
		}

		claims, err := services.ParseToken(cfg, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid token",
				Type:    "auth.token.invalid",
			}
		}

		c.Locals(UserContextKey, *claims)
		return c.Next()
	}
}

// Actor pulls the verified claims out of the request context.
func Actor(c *fiber.Ctx) (services.AuthClaims, bool) {
	claims, ok := c.Locals(UserContextKey).(services.AuthClaims)
	return claims, ok
}

// RequireMasterAdmin gates a route to master admins only.
func RequireMasterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Actor(c)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "User not authenticated for permission check",
				Type:    "auth.permission.actor",
			}
		}
		if !claims.IsMasterAdmin {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Insufficient permissions",
				Type:    "auth.permission.master",
			}
		}
		return c.Next()
	}
}

// RequirePermission gates a route on the resolved permission level. The
// project id is taken from the projectId query parameter, then the named
// route parameters, then a projectId field in a JSON body. Master admins
// bypass the resolver entirely; with no project id in the request this
// becomes a global check, which denies users holding no permission rows.
func RequirePermission(db *gorm.DB, requiredLevel int, idParams ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		claims, ok := Actor(c)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "User not authenticated for permission check",
				Type:    "auth.permission.actor",
			}
		}

		if claims.IsMasterAdmin {
			return c.Next()
		}

		projectID, err := resolveProjectID(c, idParams)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Invalid project ID format for permission check",
				Type:    "auth.permission.projectId",
			}
		}

		allowed, err := services.HasPermission(db, claims.UserID, projectID, requiredLevel)
		if err != nil {
			return err
		}
		if !allowed {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Insufficient permissions",
				Type:    "auth.permission.level",
			}
		}

		return c.Next()
	}
}
