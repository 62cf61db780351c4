package services

import (
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// HasPermission decides whether a user meets requiredLevel. With a projectID
// it resolves the unique (user, project) row; a missing row is level 0,
// never an error. Without a projectID it is a global check against any row
// the user holds; a user with zero rows is denied. Master-admin bypass is
// the caller's job, this function knows nothing about it.
func HasPermission(db *gorm.DB, userID uint64, projectID *uint64, requiredLevel int) (bool, error) {
	var perm models.Permission

	// Tag the hot-path query so it can be attributed in the slow query log.
	query := db.Clauses(hints.CommentBefore("select", "perm_resolve")).
		Where("user_id = ?", userID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	if err := query.First(&perm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	return perm.Level >= requiredLevel, nil
}

// UpdateUserPermissionForProject sets the target user's level on a project,
// creating the row if absent. Beyond the flat "acting user holds Project
// Manager" gate it guards against self-service escalation: granting another
// user a peer-or-higher level, promoting yourself, or demoting yourself
// below Project Manager all fail with Forbidden. Master admins skip the
// escalation guards but not the tenant check: target and project must
// belong to the same client.
func UpdateUserPermissionForProject(db *gorm.DB, actor AuthClaims, projectID, targetUserID uint64, newLevel int) (*models.Permission, error) {
	if newLevel < models.LevelNoAccess || newLevel > models.LevelProjectManager {
		return nil, &types.CustomError{
			Code:    400,
			Message: "Permission level must be between 0 and 3",
			Type:    "permissions.validation.level",
		}
	}

	var project models.Project
	if err := db.First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &types.CustomError{
				Code:    404,
				Message: "Project not found",
				Type:    "permissions.update.project",
			}
		}
		return nil, err
	}

	var target models.User
	if err := db.First(&target, "user_id = ?", targetUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &types.CustomError{
				Code:    404,
				Message: "Target user not found",
				Type:    "permissions.update.target",
			}
		}
		return nil, err
	}

	// Permission rows never cross tenants; users of other clients are
	// invisible here, even to master admins.
	if target.ClientID != project.ClientID {
		return nil, &types.CustomError{
			Code:    404,
			Message: "Target user not found",
			Type:    "permissions.update.target",
		}
	}

	if !actor.IsMasterAdmin {
		var actingPerm models.Permission
		err := db.Where("user_id = ? AND project_id = ?", actor.UserID, projectID).First(&actingPerm).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if err == gorm.ErrRecordNotFound || actingPerm.Level < models.LevelProjectManager {
			return nil, &types.CustomError{
				Code:    403,
				Message: "You do not have permission to manage user permissions for this project",
				Type:    "permissions.update.level",
			}
		}

		if actor.UserID != targetUserID {
			if newLevel >= actingPerm.Level {
				return nil, &types.CustomError{
					Code:    403,
					Message: "You cannot grant a permission level equal to or higher than your own",
					Type:    "permissions.update.grant",
				}
			}
		} else {
			if newLevel > actingPerm.Level {
				return nil, &types.CustomError{
					Code:    403,
					Message: "You cannot promote yourself to a higher permission level",
					Type:    "permissions.update.self",
				}
			}
			if newLevel < models.LevelProjectManager {
				return nil, &types.CustomError{
					Code:    403,
					Message: "A Project Manager cannot lower their own permission below Project Manager level",
					Type:    "permissions.update.self",
				}
			}
		}
	}

	perm := models.Permission{
		UserID:    targetUserID,
		ProjectID: projectID,
		Level:     newLevel,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"level": newLevel}),
	}).Create(&perm).Error; err != nil {
		return nil, err
	}

	// Reload so the conflict path returns the real row
	if err := db.Where("user_id = ? AND project_id = ?", targetUserID, projectID).First(&perm).Error; err != nil {
		return nil, err
	}

	return &perm, nil
}

// ProjectUserPermission is one row of the project permission listing.
type ProjectUserPermission struct {
	UserID        uint64 `json:"userId"`
	UserName      string `json:"userName"`
	IsClientAdmin bool   `json:"isClientAdmin"`
	Level         int    `json:"level"`
}

// GetPermissionsForProject lists every enabled user of the client with their
// effective level on the project, 0 when no row exists.
func GetPermissionsForProject(db *gorm.DB, projectID, clientID uint64) ([]ProjectUserPermission, error) {
	var users []models.User
	if err := db.Where("client_id = ? AND enabled = ?", clientID, true).Find(&users).Error; err != nil {
		return nil, err
	}

	var perms []models.Permission
	if err := db.Where("project_id = ?", projectID).Find(&perms).Error; err != nil {
		return nil, err
	}

	levelByUser := make(map[uint64]int, len(perms))
	for _, p := range perms {
		levelByUser[p.UserID] = p.Level
	}

	result := make([]ProjectUserPermission, 0, len(users))
	for _, u := range users {
		result = append(result, ProjectUserPermission{
			UserID:        u.UserID,
			UserName:      u.UserName,
			IsClientAdmin: u.IsClientAdmin,
			Level:         levelByUser[u.UserID],
		})
	}

	return result, nil
}
