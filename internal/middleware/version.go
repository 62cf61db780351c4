package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const apiVersionHeader = "X-Api-Version"

// versionAliases maps the short version strings clients send to their
// canonical form.
var versionAliases = map[string]string{
	"1":   "1.0.0",
	"1.0": "1.0.0",
}

// VersionMiddleware normalizes the X-Api-Version header and stores the
// canonical version in the request context.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get(apiVersionHeader, "1.0.0")
		if canonical, ok := versionAliases[version]; ok {
			version = canonical
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
