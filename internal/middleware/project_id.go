package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/types"
)

// resolveProjectID extracts the project id a permission check applies to.
// When the route names id parameters they are authoritative and nothing
// else is consulted. Otherwise a projectId field in a JSON body takes
// precedence over the query parameter, so the id that gets checked is
// always the id the handler acts on. nil with no error means a global
// check.
func resolveProjectID(c *fiber.Ctx, idParams []string) (*uint64, error) {
	if len(idParams) > 0 {
		for _, name := range idParams {
			if raw := c.Params(name); raw != "" {
				return parseProjectID(raw)
			}
		}
		return nil, nil
	}

	if len(c.Body()) > 0 {
		var body struct {
			ProjectID *types.FlexUint64 `json:"projectId"`
		}
		// Non-JSON bodies are not an error here, just no project id
		if err := c.BodyParser(&body); err == nil && body.ProjectID != nil {
			id := body.ProjectID.Uint64()
			return &id, nil
		}
	}

	if raw := c.Query("projectId"); raw != "" {
		return parseProjectID(raw)
	}

	return nil, nil
}

func parseProjectID(raw string) (*uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
