package services

import (
	"strings"

	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUserInput is the validated payload for user creation.
type CreateUserInput struct {
	ClientID uint64 `json:"clientId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput carries optional fields for a partial update. A non-nil
// Password is re-hashed before storage.
type UpdateUserInput struct {
	UserName *string `json:"userName"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Enabled  *bool   `json:"enabled"`
}

var errUserNotFound = &types.CustomError{
	Code:    404,
	Message: "User not found",
	Type:    "users.get",
}

// ListUsers returns users, optionally filtered to one client. Disabled
// users are included: the management UI needs them to re-enable accounts.
func ListUsers(db *gorm.DB, clientID *uint64) ([]models.User, error) {
	var users []models.User
	query := db
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a user by id.
func GetUser(db *gorm.DB, userID uint64) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user and fans out a default permission row across
// every enabled project of the client, all in one transaction.
func CreateUser(db *gorm.DB, in CreateUserInput) (*models.User, error) {
	if in.ClientID == 0 || in.UserName == "" || in.Email == "" || in.Password == "" {
		return nil, &types.CustomError{
			Code:    400,
			Message: "clientId, userName, email and password are required",
			Type:    "users.validation.input",
		}
	}

	// Emails are stored lowercased; normalize before the duplicate check so
	// mixed-case variants of a taken address are caught here, not by the
	// unique index
	in.Email = strings.ToLower(in.Email)

	var client models.Client
	if err := db.First(&client, "client_id = ?", in.ClientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &types.CustomError{
				Code:    404,
				Message: "Client not found",
				Type:    "users.create.client",
			}
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &types.CustomError{
			Code:    400,
			Message: "Email is already in use",
			Type:    "users.validation.email",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ClientID:     in.ClientID,
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Enabled:      true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		var projects []models.Project
		if err := tx.Where("client_id = ? AND enabled = ?", in.ClientID, true).
			Find(&projects).Error; err != nil {
			return err
		}

		if len(projects) == 0 {
			return nil
		}

		perms := make([]models.Permission, 0, len(projects))
		for _, p := range projects {
			perms = append(perms, models.Permission{
				UserID:    user.UserID,
				ProjectID: p.ProjectID,
				Level:     models.DefaultProjectLevel,
			})
		}
		return tx.Create(&perms).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser applies the non-nil fields of the update payload.
func UpdateUser(db *gorm.DB, userID uint64, in UpdateUserInput) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.UserName != nil {
		if *in.UserName == "" {
			return nil, &types.CustomError{
				Code:    400,
				Message: "User name cannot be empty",
				Type:    "users.validation.input",
			}
		}
		updates["user_name"] = *in.UserName
	}
	if in.Email != nil {
		updates["email"] = strings.ToLower(*in.Email)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// DisableUser soft-disables a user account. Permission rows stay so grants
// survive a later re-enable.
func DisableUser(db *gorm.DB, userID uint64) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errUserNotFound
		}
		return nil, err
	}

	if err := db.Model(&user).Update("enabled", false).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
