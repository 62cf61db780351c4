package services

import (
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// CreateProjectInput is the validated payload for project creation.
type CreateProjectInput struct {
	ProjectName string `json:"projectName"`
	ClientID    uint64 `json:"clientId"`
	ImageURL    string `json:"imageUrl"`
}

// UpdateProjectInput carries optional fields for a partial update.
type UpdateProjectInput struct {
	ProjectName *string `json:"projectName"`
	ImageURL    *string `json:"imageUrl"`
	Enabled     *bool   `json:"enabled"`
}

// ProjectWithLevel is a project plus the actor's effective level on it,
// which the frontend uses to decide which controls to render.
type ProjectWithLevel struct {
	models.Project
	PermissionLevel int `json:"permissionLevel"`
}

var errProjectNotFound = &types.CustomError{
	Code:    404,
	Message: "Project not found",
	Type:    "projects.get",
}

// ListVisibleProjects returns the enabled projects the actor may enumerate.
// Master admins see every enabled project across tenants. Everyone else
// sees only projects where they hold a permission row above No Access;
// projects in their own tenant they were never granted stay invisible.
func ListVisibleProjects(db *gorm.DB, actor AuthClaims) ([]models.Project, error) {
	var projects []models.Project

	if actor.IsMasterAdmin {
		if err := db.Where("enabled = ?", true).Find(&projects).Error; err != nil {
			return nil, err
		}
		return projects, nil
	}

	var projectIDs []uint64
	if err := db.Model(&models.Permission{}).
		Clauses(hints.CommentBefore("select", "visibility_filter")).
		Where("user_id = ? AND level > ?", actor.UserID, models.LevelNoAccess).
		Pluck("project_id", &projectIDs).Error; err != nil {
		return nil, err
	}

	if len(projectIDs) == 0 {
		return []models.Project{}, nil
	}

	if err := db.Where("project_id IN ? AND enabled = ?", projectIDs, true).
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProjectIfVisible returns the project when the actor holds at least
// Viewer on it. Missing, disabled, cross-tenant and insufficient-level all
// collapse to the same NotFound so direct-URL probing reveals nothing.
// Master admins see any project by id, disabled ones included, so they can
// administer projects that have been soft-disabled.
func GetProjectIfVisible(db *gorm.DB, actor AuthClaims, projectID uint64) (*ProjectWithLevel, error) {
	query := db.Where("project_id = ?", projectID)
	if !actor.IsMasterAdmin {
		// Second layer on top of the permission check below. Masters skip
		// it and also keep soft-disabled projects addressable by id.
		query = query.Where("client_id = ? AND enabled = ?", actor.ClientID, true)
	}

	var project models.Project
	if err := query.First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errProjectNotFound
		}
		return nil, err
	}

	level := models.LevelMasterAdmin
	if !actor.IsMasterAdmin {
		var perm models.Permission
		err := db.Where("user_id = ? AND project_id = ?", actor.UserID, project.ProjectID).
			First(&perm).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			level = models.LevelNoAccess
		case err != nil:
			return nil, err
		default:
			level = perm.Level
		}
	}

	if level < models.LevelViewer {
		return nil, errProjectNotFound
	}

	return &ProjectWithLevel{Project: project, PermissionLevel: level}, nil
}

// CreateProject creates a project and fans out a default permission row to
// every enabled user of the client, all in one transaction.
func CreateProject(db *gorm.DB, in CreateProjectInput) (*models.Project, error) {
	if in.ProjectName == "" || in.ClientID == 0 {
		return nil, &types.CustomError{
			Code:    400,
			Message: "Project name and client ID are required",
			Type:    "projects.validation.input",
		}
	}

	var client models.Client
	if err := db.First(&client, "client_id = ?", in.ClientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &types.CustomError{
				Code:    404,
				Message: "Client not found",
				Type:    "projects.create.client",
			}
		}
		return nil, err
	}

	project := models.Project{
		ProjectName: in.ProjectName,
		ImageURL:    in.ImageURL,
		ClientID:    in.ClientID,
		Enabled:     true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		var users []models.User
		if err := tx.Where("client_id = ? AND enabled = ?", in.ClientID, true).
			Find(&users).Error; err != nil {
			return err
		}

		if len(users) == 0 {
			return nil
		}

		perms := make([]models.Permission, 0, len(users))
		for _, u := range users {
			perms = append(perms, models.Permission{
				UserID:    u.UserID,
				ProjectID: project.ProjectID,
				Level:     models.DefaultProjectLevel,
			})
		}
		return tx.Create(&perms).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// UpdateProject applies the non-nil fields of the update payload.
func UpdateProject(db *gorm.DB, projectID uint64, in UpdateProjectInput) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errProjectNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.ProjectName != nil {
		if *in.ProjectName == "" {
			return nil, &types.CustomError{
				Code:    400,
				Message: "Project name cannot be empty",
				Type:    "projects.validation.input",
			}
		}
		updates["project_name"] = *in.ProjectName
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}

	if len(updates) == 0 {
		return &project, nil
	}

	if err := db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// DisableProject soft-disables a project. The row and its permission rows
// remain for historical references.
func DisableProject(db *gorm.DB, projectID uint64) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errProjectNotFound
		}
		return nil, err
	}

	if err := db.Model(&project).Update("enabled", false).Error; err != nil {
		return nil, err
	}

	return &project, nil
}
