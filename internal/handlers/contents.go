package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// ContentHandler handles content routes
type ContentHandler struct {
	DB *gorm.DB
}

// ListContents handles GET /api/contents
// @Summary List project contents
// @Description List enabled contents of a project, newest first, optionally filtered by category
// @Tags Contents
// @Produce json
// @Param projectId query int true "Project ID"
// @Param category query string false "Category filter"
// @Success 200 {array} models.Content
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contents [get]
func (h *ContentHandler) ListContents(c *fiber.Ctx) error {
	projectID, err := parseIDQuery(c, "projectId")
	if err != nil || projectID == nil {
		return utils.ErrorResponse(c, "A valid projectId parameter is required", fiber.StatusBadRequest, "contents.list.projectId")
	}

	contents, err := services.ListContents(h.DB, *projectID, c.Query("category"))
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "contents.list")
	}
	return c.Status(fiber.StatusOK).JSON(contents)
}

// GetContent handles GET /api/contents/:id
// @Summary Get a content item
// @Description Content on a project the caller cannot view is reported as not found
// @Tags Contents
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} models.Content
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contents/{id} [get]
func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	content, err := services.GetContentIfVisible(h.DB, claims, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "contents.get")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

// CreateContent handles POST /api/contents
// @Summary Create a content item
// @Tags Contents
// @Accept json
// @Produce json
// @Param body body services.CreateContentInput true "Content"
// @Success 201 {object} models.Content
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contents [post]
func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	var in services.CreateContentInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "contents.create.body")
	}

	content, err := services.CreateContent(h.DB, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "contents.create")
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

// UpdateContent handles PUT /api/contents/:id
// @Summary Update a content item
// @Tags Contents
// @Accept json
// @Produce json
// @Param id path int true "Content ID"
// @Param body body services.UpdateContentInput true "Fields to update"
// @Success 200 {object} models.Content
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contents/{id} [put]
func (h *ContentHandler) UpdateContent(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var in services.UpdateContentInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "contents.update.body")
	}

	content, err := services.UpdateContent(h.DB, claims, id, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "contents.update")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

// DisableContent handles DELETE /api/contents/:id
// @Summary Disable a content item
// @Description Soft-disables the content; existing share links keep resolving
// @Tags Contents
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} models.Content
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /contents/{id} [delete]
func (h *ContentHandler) DisableContent(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	content, err := services.DisableContent(h.DB, claims, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "contents.disable")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}
