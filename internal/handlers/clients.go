package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/types"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// ClientHandler handles client (tenant) routes
type ClientHandler struct {
	DB *gorm.DB
}

// SetClientAdminInput names the user to receive the client admin flag.
type SetClientAdminInput struct {
	UserID types.FlexUint64 `json:"userId"`
}

// ListClients handles GET /api/clients
// @Summary List clients
// @Description List enabled clients. Non-master callers see only their own client.
// @Tags Clients
// @Produce json
// @Success 200 {array} models.Client
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	if !claims.IsMasterAdmin {
		client, err := services.GetClient(h.DB, claims.ClientID)
		if err != nil {
			return utils.ServiceErrorResponse(c, err, "clients.list")
		}
		return c.Status(fiber.StatusOK).JSON([]models.Client{*client})
	}

	clients, err := services.ListClients(h.DB)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.list")
	}
	return c.Status(fiber.StatusOK).JSON(clients)
}

// GetClient handles GET /api/clients/:id
// @Summary Get a client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	// Other tenants are invisible, not forbidden
	if !claims.IsMasterAdmin && id != claims.ClientID {
		return utils.ErrorResponse(c, "Client not found", fiber.StatusNotFound, "clients.get")
	}

	client, err := services.GetClient(h.DB, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.get")
	}
	return c.Status(fiber.StatusOK).JSON(client)
}

// CreateClient handles POST /api/clients
// @Summary Create a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param body body services.CreateClientInput true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var in services.CreateClientInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "clients.create.body")
	}

	client, err := services.CreateClient(h.DB, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.create")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClient handles PUT /api/clients/:id
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param body body services.UpdateClientInput true "Fields to update"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	claims, ok := actor(c)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if !claims.IsMasterAdmin && id != claims.ClientID {
		return utils.ErrorResponse(c, "Client not found", fiber.StatusNotFound, "clients.update")
	}

	var in services.UpdateClientInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "clients.update.body")
	}

	client, err := services.UpdateClient(h.DB, id, in)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.update")
	}
	return c.Status(fiber.StatusOK).JSON(client)
}

// DisableClient handles DELETE /api/clients/:id
// @Summary Disable a client
// @Description Soft-disables the client; its rows are retained
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) DisableClient(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	client, err := services.DisableClient(h.DB, id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.disable")
	}
	return c.Status(fiber.StatusOK).JSON(client)
}

// SetClientAdmin handles POST /api/clients/:id/admin
// @Summary Delegate client admin
// @Description Atomically moves the client admin flag to another user of the same client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param body body handlers.SetClientAdminInput true "New admin"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /clients/{id}/admin [post]
func (h *ClientHandler) SetClientAdmin(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var in SetClientAdminInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "clients.admin.body")
	}
	if in.UserID == 0 {
		return utils.ErrorResponse(c, "userId is required", fiber.StatusBadRequest, "clients.admin.input")
	}

	admin, err := services.SetClientAdmin(h.DB, id, in.UserID.Uint64())
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "clients.admin")
	}
	return c.Status(fiber.StatusOK).JSON(admin)
}
