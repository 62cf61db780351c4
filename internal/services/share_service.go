package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/obravista/portalapi/internal/config"
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"github.com/obravista/portalapi/internal/utils"
	"gorm.io/gorm"
)

// ShareLinkResult is the issuance payload.
type ShareLinkResult struct {
	ShareableLink string    `json:"shareableLink"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// maxShareLifetimeSeconds caps link lifetimes at ten years, far below the
// point where the seconds-to-Duration conversion would overflow.
const maxShareLifetimeSeconds int64 = 10 * 365 * 24 * 60 * 60

var errShareLinkNotFound = &types.CustomError{
	Code:    404,
	Message: "Link not found or expired",
	Type:    "share.view",
}

// CreateShareLink issues a bearer token granting read access to one content
// item until the expiry. Token collisions are practically impossible but
// creation retries once on a unique violation anyway.
func CreateShareLink(db *gorm.DB, cfg *config.Config, contentID uint64, expiresInSeconds int64) (*ShareLinkResult, error) {
	if contentID == 0 || expiresInSeconds <= 0 {
		return nil, &types.CustomError{
			Code:    400,
			Message: "contentId and a positive expiresIn are required",
			Type:    "share.validation.input",
		}
	}
	if expiresInSeconds > maxShareLifetimeSeconds {
		return nil, &types.CustomError{
			Code:    400,
			Message: "expiresIn must not exceed ten years",
			Type:    "share.validation.expiry",
		}
	}

	var count int64
	if err := db.Model(&models.Content{}).Where("content_id = ?", contentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &types.CustomError{
			Code:    404,
			Message: "Content not found",
			Type:    "share.create.content",
		}
	}

	expiresAt := time.Now().Add(time.Duration(expiresInSeconds) * time.Second)

	var link models.ShareLink
	for attempt := 0; attempt < 2; attempt++ {
		token, err := utils.GenerateShareToken()
		if err != nil {
			return nil, err
		}

		link = models.ShareLink{
			ContentID: contentID,
			Token:     token,
			ExpiresAt: expiresAt,
		}
		err = db.Create(&link).Error
		if err == nil {
			break
		}
		if attempt == 0 && isUniqueViolation(err) {
			continue
		}
		return nil, err
	}

	return &ShareLinkResult{
		ShareableLink: fmt.Sprintf("%s/share/%s", strings.TrimSuffix(cfg.ShareBaseURL, "/"), link.Token),
		Token:         link.Token,
		ExpiresAt:     link.ExpiresAt,
	}, nil
}

// ResolveShareLink redeems a token for its content item with the project
// preloaded. Missing and expired tokens produce the same NotFound; no
// permission check runs here, possession of the token is the authorization.
func ResolveShareLink(db *gorm.DB, token string) (*models.Content, error) {
	if token == "" {
		return nil, errShareLinkNotFound
	}

	var link models.ShareLink
	if err := db.Where("token = ?", token).First(&link).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errShareLinkNotFound
		}
		return nil, err
	}

	if link.ExpiresAt.Before(time.Now()) {
		return nil, errShareLinkNotFound
	}

	var content models.Content
	if err := db.Preload("Project").First(&content, "content_id = ?", link.ContentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errShareLinkNotFound
		}
		return nil, err
	}

	return &content, nil
}

// isUniqueViolation sniffs driver-specific duplicate key errors.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
