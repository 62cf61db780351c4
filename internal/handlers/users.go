package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user account routes
type UserHandler struct {
	DB *gorm.DB
}

// lookupUserInTenant resolves :id and hides accounts of other tenants from
// non-master actors. Returns false after writing the response on failure.
func (h *UserHandler) lookupUserInTenant(c *fiber.Ctx) (uint64, bool) {
	claims, ok := actor(c)
	if !ok {
		return 0, false
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}

	user, err := services.GetUser(h.DB, id)
	if err != nil {
		_ = utils.ServiceErrorResponse(c, err, "users.get")
		return 0, false
	}
	if !claims.IsMasterAdmin && user.ClientID != claims.ClientID {
		_ = utils.ErrorResponse(c, "User not found", fiber.StatusNotFound, "users.get")
		return 0, false
	}

	return id, true
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description List users of a client. Non-master callers always see their own client. Disabled accounts are included.
// @Tags Users
// @Produce json
// @Param clientId query int false "Client ID filter (master admins only)"
// @Success 200 {array} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	clientID, err := parseIDQuery(c, "clientId")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid clientId parameter", fiber.StatusBadRequest, "users.list.clientId")
	}
	if !claims.IsMasterAdmin {
		own := claims.ClientID
		clientID = &own
	}

	users, err := services.ListUsers(h.DB, clientID)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "users.list")
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := h.lookupUserInTenant(c)
	if !ok {
		return nil
	}

	user, err := services.GetUser(h.DB, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "users.get")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Description Creates a user and grants the default level on every enabled project of the client
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	var in services.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "users.create.body")
	}

	if !claims.IsMasterAdmin {
		if in.ClientID == 0 {
			in.ClientID = claims.ClientID
		} else if in.ClientID != claims.ClientID {
			return utils.ErrorResponse(c, "Cannot create a user for another client", fiber.StatusForbidden, "users.create.client")
		}
	}

	user, err := services.CreateUser(h.DB, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "users.create")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := h.lookupUserInTenant(c)
	if !ok {
		return nil
	}

	var in services.UpdateUserInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "users.update.body")
	}

	user, err := services.UpdateUser(h.DB, id, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "users.update")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// DisableUser handles DELETE /api/users/:id
// @Summary Disable a user
// @Description Soft-disables the account; permission rows are retained
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DisableUser(c *fiber.Ctx) error {
	id, ok := h.lookupUserInTenant(c)
	if !ok {
		return nil
	}

	user, err := services.DisableUser(h.DB, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "users.disable")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
