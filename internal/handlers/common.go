package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/middleware"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/utils"
)

// parseIDParam parses a uint64 route parameter. A zero return with the
// handled flag set means the error response has already been written.
func parseIDParam(c *fiber.Ctx, name string) (uint64, bool) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = utils.ErrorResponse(c, "Invalid "+name+" parameter", fiber.StatusBadRequest, "params.id")
		return 0, false
	}
	return id, true
}

// parseIDQuery parses an optional uint64 query parameter. The pointer is
// nil when the parameter is absent.
func parseIDQuery(c *fiber.Ctx, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// actor pulls the verified claims out of the request context, writing a 401
// when the auth middleware did not run.
func actor(c *fiber.Ctx) (services.AuthClaims, bool) {
	claims, ok := middleware.Actor(c)
	if !ok {
		_ = utils.ErrorResponse(c, "User not authenticated", fiber.StatusUnauthorized, "auth.actor")
	}
	return claims, ok
}
