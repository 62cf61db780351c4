package services

import (
	"time"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
)

// CreateContentInput is the validated payload for content creation.
type CreateContentInput struct {
	ProjectID   uint64      `json:"projectId"`
	Category    string      `json:"category"`
	ContentName string      `json:"contentName"`
	URL         string      `json:"url"`
	Date        time.Time   `json:"date"`
	Metadata    models.JSON `json:"metadata"`
}

// UpdateContentInput carries optional fields for a partial update.
type UpdateContentInput struct {
	Category    *string      `json:"category"`
	ContentName *string      `json:"contentName"`
	URL         *string      `json:"url"`
	Date        *time.Time   `json:"date"`
	Metadata    *models.JSON `json:"metadata"`
	Enabled     *bool        `json:"enabled"`
}

var errContentNotFound = &types.CustomError{
	Code:    404,
	Message: "Content not found",
	Type:    "contents.get",
}

// ListContents returns the enabled content of a project, newest first,
// optionally filtered by category.
func ListContents(db *gorm.DB, projectID uint64, category string) ([]models.Content, error) {
	query := db.Where("project_id = ? AND enabled = ?", projectID, true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var contents []models.Content
	if err := query.Preload("Project").Order("created_at DESC").Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// GetContentIfVisible returns the content item when the actor holds at
// least Viewer on its project. Denial is reported as NotFound so a direct
// id probe cannot confirm the item exists.
func GetContentIfVisible(db *gorm.DB, actor AuthClaims, contentID uint64) (*models.Content, error) {
	var content models.Content
	if err := db.Preload("Project").First(&content, "content_id = ?", contentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errContentNotFound
		}
		return nil, err
	}

	if !actor.IsMasterAdmin {
		projectID := content.ProjectID
		allowed, err := HasPermission(db, actor.UserID, &projectID, models.LevelViewer)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, errContentNotFound
		}
	}

	return &content, nil
}

// requireContentEditor loads a content item and verifies the actor may
// modify it. Actors below Viewer on its project get NotFound so the probe
// reveals nothing; viewers get Forbidden.
func requireContentEditor(db *gorm.DB, actor AuthClaims, contentID uint64) (*models.Content, error) {
	var content models.Content
	if err := db.First(&content, "content_id = ?", contentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errContentNotFound
		}
		return nil, err
	}

	if actor.IsMasterAdmin {
		return &content, nil
	}

	level := models.LevelNoAccess
	var perm models.Permission
	err := db.Where("user_id = ? AND project_id = ?", actor.UserID, content.ProjectID).
		First(&perm).Error
	switch {
	case err == gorm.ErrRecordNotFound:
	case err != nil:
		return nil, err
	default:
		level = perm.Level
	}

	if level < models.LevelViewer {
		return nil, errContentNotFound
	}
	if level < models.LevelEditor {
		return nil, &types.CustomError{
			Code:    403,
			Message: "Insufficient permissions for this project's content",
			Type:    "contents.update.level",
		}
	}

	return &content, nil
}

// CreateContent creates a content item under an existing project.
func CreateContent(db *gorm.DB, in CreateContentInput) (*models.Content, error) {
	if in.ProjectID == 0 || in.Category == "" || in.ContentName == "" || in.URL == "" || in.Date.IsZero() {
		return nil, &types.CustomError{
			Code:    400,
			Message: "projectId, category, contentName, url and date are required",
			Type:    "contents.validation.input",
		}
	}

	var count int64
	if err := db.Model(&models.Project{}).Where("project_id = ?", in.ProjectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &types.CustomError{
			Code:    404,
			Message: "Project not found",
			Type:    "contents.create.project",
		}
	}

	content := models.Content{
		ProjectID:   in.ProjectID,
		Category:    in.Category,
		ContentName: in.ContentName,
		URL:         in.URL,
		Date:        in.Date,
		Metadata:    in.Metadata,
		Enabled:     true,
	}
	if err := db.Create(&content).Error; err != nil {
		return nil, err
	}

	// Return with the project preloaded like the listing does
	if err := db.Preload("Project").First(&content, "content_id = ?", content.ContentID).Error; err != nil {
		return nil, err
	}

	return &content, nil
}

// UpdateContent applies the non-nil fields of the update payload. The actor
// must hold at least Editor on the content's project.
func UpdateContent(db *gorm.DB, actor AuthClaims, contentID uint64, in UpdateContentInput) (*models.Content, error) {
	content, err := requireContentEditor(db, actor, contentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.ContentName != nil {
		updates["content_name"] = *in.ContentName
	}
	if in.URL != nil {
		updates["url"] = *in.URL
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.Metadata != nil {
		updates["metadata"] = *in.Metadata
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}

	if len(updates) == 0 {
		return content, nil
	}

	if err := db.Model(content).Updates(updates).Error; err != nil {
		return nil, err
	}

	return content, nil
}

// DisableContent soft-disables a content item. The row stays addressable
// by id so existing share links keep resolving. The actor must hold at
// least Editor on the content's project.
func DisableContent(db *gorm.DB, actor AuthClaims, contentID uint64) (*models.Content, error) {
	content, err := requireContentEditor(db, actor, contentID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(content).Update("enabled", false).Error; err != nil {
		return nil, err
	}

	return content, nil
}
