package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// ProjectHandler handles project routes
type ProjectHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// ListProjects handles GET /api/projects
// @Summary List visible projects
// @Description Master admins see every enabled project; everyone else only projects they hold a permission row above level 0 on
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	projects, err := services.ListVisibleProjects(h.DB, claims)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "projects.list")
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

// GetProject handles GET /api/projects/:id
// @Summary Get a project
// @Description A project the caller cannot view is reported as not found
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} services.ProjectWithLevel
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	project, err := services.GetProjectIfVisible(h.DB, claims, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "projects.get")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Description Creates a project and grants the default level to every enabled user of the client
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body services.CreateProjectInput true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	var in services.CreateProjectInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "projects.create.body")
	}

	// Non-master actors stay inside their own tenant
	if !claims.IsMasterAdmin {
		if in.ClientID == 0 {
			in.ClientID = claims.ClientID
		} else if in.ClientID != claims.ClientID {
			return utils.ErrorResponse(c, "Cannot create a project for another client", fiber.StatusForbidden, "projects.create.client")
		}
	}

	if in.ImageURL == "" {
		in.ImageURL = h.Cfg.DefaultProjectImage
	}

	project, err := services.CreateProject(h.DB, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "projects.create")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body services.UpdateProjectInput true "Fields to update"
// @Success 200 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var in services.UpdateProjectInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "projects.update.body")
	}

	project, err := services.UpdateProject(h.DB, id, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "projects.update")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// DisableProject handles DELETE /api/projects/:id
// @Summary Disable a project
// @Description Soft-disables the project; content and permission rows are retained
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DisableProject(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	project, err := services.DisableProject(h.DB, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "projects.disable")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}
