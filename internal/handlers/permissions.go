package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/types"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// PermissionHandler handles permission routes
type PermissionHandler struct {
	DB *gorm.DB
}

// PermissionUpdateInput is one requested level change. The frontend sends a
// single object or an array of them through the same endpoint.
type PermissionUpdateInput struct {
	ProjectID types.FlexUint64 `json:"projectId"`
	UserID    types.FlexUint64 `json:"userId"`
	Level     types.FlexUint64 `json:"level"`
}

// GetPermissions handles GET /api/permissions
// @Summary List project permissions
// @Description Every enabled user of the project's client with their effective level, 0 when no row exists
// @Tags Permissions
// @Produce json
// @Param projectId query int true "Project ID"
// @Success 200 {array} services.ProjectUserPermission
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /permissions [get]
func (h *PermissionHandler) GetPermissions(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	projectID, err := parseIDQuery(c, "projectId")
	if err != nil || projectID == nil {
		return utils.ErrorResponse(c, "A valid projectId parameter is required", fiber.StatusBadRequest, "permissions.list.projectId")
	}

	// Visibility check doubles as the client lookup
	project, err := services.GetProjectIfVisible(h.DB, claims, *projectID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "permissions.list")
	}

	// Only managers of the project may read its permission matrix
	if project.PermissionLevel < models.LevelProjectManager {
		return utils.ErrorResponse(c, "Insufficient permissions", fiber.StatusForbidden, "permissions.list.level")
	}

	perms, err := services.GetPermissionsForProject(h.DB, *projectID, project.ClientID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "permissions.list")
	}
	return c.Status(fiber.StatusOK).JSON(perms)
}

// UpdatePermissions handles PUT /api/permissions
// @Summary Update permission levels
// @Description Upserts one level change or a batch. Each change is checked against the caller's own level on that project; escalation and lockout are rejected.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param body body handlers.PermissionUpdateInput true "Level change, or an array of them"
// @Success 200 {array} models.Permission
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /permissions [put]
func (h *PermissionHandler) UpdatePermissions(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	var updates types.FlexList[PermissionUpdateInput]
	if err := c.BodyParser(&updates); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "permissions.update.body")
	}
	if len(updates) == 0 {
		return utils.ErrorResponse(c, "At least one permission update is required", fiber.StatusBadRequest, "permissions.update.input")
	}

	results := make([]models.Permission, 0, len(updates))
	for _, u := range updates {
		perm, err := services.UpdateUserPermissionForProject(h.DB, claims, u.ProjectID.Uint64(), u.UserID.Uint64(), int(u.Level.Uint64()))
		if err != nil {
			return utils.ServiceErrorResponse(c, err, "permissions.update")
		}
		results = append(results, *perm)
	}

	return c.Status(fiber.StatusOK).JSON(results)
}
