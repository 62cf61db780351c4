package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/services"
	"github.com/obravista/portalapi/internal/types"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// ShareHandler handles share link routes
type ShareHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// CreateShareLinkInput is the issuance request.
type CreateShareLinkInput struct {
	ContentID types.FlexUint64 `json:"contentId"`
	ExpiresIn types.FlexUint64 `json:"expiresIn"` // seconds
}

// CreateShareLink handles POST /api/share
// @Summary Create a share link
// @Description Issues a bearer token URL that grants read access to one content item until expiry
// @Tags Share
// @Accept json
// @Produce json
// @Param body body handlers.CreateShareLinkInput true "Content and lifetime"
// @Success 201 {object} services.ShareLinkResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /share [post]
func (h *ShareHandler) CreateShareLink(c *fiber.Ctx) error {
	var in CreateShareLinkInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "share.create.body")
	}

	result, err := services.CreateShareLink(h.DB, h.Cfg, in.ContentID.Uint64(), int64(in.ExpiresIn.Uint64()))
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "share.create")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ViewSharedContent handles GET /api/share/:token
// @Summary Redeem a share link
// @Description Public endpoint; the token itself is the authorization. Unknown and expired tokens are indistinguishable.
// @Tags Share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} models.Content
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /share/{token} [get]
func (h *ShareHandler) ViewSharedContent(c *fiber.Ctx) error {
	content, err := services.ResolveShareLink(h.DB, c.Params("token"))
	if err != nil {
		return utils.ServiceErrorResponse(c, err, "share.view")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}
