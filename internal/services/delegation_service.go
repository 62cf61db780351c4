package services

import (
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
)

// SetClientAdmin transfers the client-admin flag to newAdminUserID within
// clientID. The caller must already have verified the actor is a master
// admin. The whole transition is one transaction: demote and cap the
// outgoing admin, promote and raise the incoming one, touching only
// permission rows on that client's projects. Any failure rolls back the
// entire transfer.
func SetClientAdmin(db *gorm.DB, clientID, newAdminUserID uint64) (*models.User, error) {
	var promoted models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		var newAdmin models.User
		if err := tx.Where("user_id = ? AND client_id = ?", newAdminUserID, clientID).
			First(&newAdmin).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &types.CustomError{
					Code:    404,
					Message: "User not found in this client",
					Type:    "clients.admin.target",
				}
			}
			return err
		}

		var current models.User
		err := tx.Where("client_id = ? AND is_client_admin = ?", clientID, true).
			First(&current).Error
		hasCurrent := err == nil
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if hasCurrent && current.UserID == newAdmin.UserID {
			promoted = current
			return nil
		}

		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("client_id = ?", clientID).
			Pluck("project_id", &projectIDs).Error; err != nil {
			return err
		}

		if hasCurrent {
			if err := tx.Model(&models.User{}).
				Where("user_id = ?", current.UserID).
				Update("is_client_admin", false).Error; err != nil {
				return err
			}
			// Cap, not raise: the outgoing admin keeps at most Project
			// Manager on this client's projects.
			if len(projectIDs) > 0 {
				if err := tx.Model(&models.Permission{}).
					Where("user_id = ? AND project_id IN ? AND level > ?",
						current.UserID, projectIDs, models.LevelProjectManager).
					Update("level", models.LevelProjectManager).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", newAdmin.UserID).
			Update("is_client_admin", true).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			// Raise existing rows below Project Manager, scoped to this
			// client's projects only. A blanket per-user update would
			// corrupt rows the user holds on other tenants.
			if err := tx.Model(&models.Permission{}).
				Where("user_id = ? AND project_id IN ? AND level < ?",
					newAdmin.UserID, projectIDs, models.LevelProjectManager).
				Update("level", models.LevelProjectManager).Error; err != nil {
				return err
			}

			var existingIDs []uint64
			if err := tx.Model(&models.Permission{}).
				Where("user_id = ? AND project_id IN ?", newAdmin.UserID, projectIDs).
				Pluck("project_id", &existingIDs).Error; err != nil {
				return err
			}

			existing := make(map[uint64]struct{}, len(existingIDs))
			for _, id := range existingIDs {
				existing[id] = struct{}{}
			}

			missing := make([]models.Permission, 0)
			for _, id := range projectIDs {
				if _, ok := existing[id]; !ok {
					missing = append(missing, models.Permission{
						UserID:    newAdmin.UserID,
						ProjectID: id,
						Level:     models.LevelProjectManager,
					})
				}
			}
			if len(missing) > 0 {
				if err := tx.Create(&missing).Error; err != nil {
					return err
				}
			}
		}

		newAdmin.IsClientAdmin = true
		promoted = newAdmin
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &promoted, nil
}
