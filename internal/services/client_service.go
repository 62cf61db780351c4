package services

import (
	"github.com/obravista/portalapi/internal/models"
	"github.com/obravista/portalapi/internal/types"
	"gorm.io/gorm"
)

// CreateClientInput is the validated payload for client creation.
type CreateClientInput struct {
	ClientName string `json:"clientName"`
}

// UpdateClientInput carries optional fields for a partial update.
type UpdateClientInput struct {
	ClientName *string `json:"clientName"`
	Enabled    *bool   `json:"enabled"`
}

var errClientNotFound = &types.CustomError{
	Code:    404,
	Message: "Client not found",
	Type:    "clients.get",
}

// ListClients returns enabled clients. Disabled tenants stay addressable by
// id but drop out of listings.
func ListClients(db *gorm.DB) ([]models.Client, error) {
	var clients []models.Client
	if err := db.Where("enabled = ?", true).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClient returns a client by id, enabled or not.
func GetClient(db *gorm.DB, clientID uint64) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "client_id = ?", clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// CreateClient creates a tenant.
func CreateClient(db *gorm.DB, in CreateClientInput) (*models.Client, error) {
	if in.ClientName == "" {
		return nil, &types.CustomError{
			Code:    400,
			Message: "Client name is required",
			Type:    "clients.validation.input",
		}
	}

	client := models.Client{
		ClientName: in.ClientName,
		Enabled:    true,
	}
	if err := db.Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient applies the non-nil fields of the update payload.
func UpdateClient(db *gorm.DB, clientID uint64, in UpdateClientInput) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "client_id = ?", clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errClientNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.ClientName != nil {
		if *in.ClientName == "" {
			return nil, &types.CustomError{
				Code:    400,
				Message: "Client name cannot be empty",
				Type:    "clients.validation.input",
			}
		}
		updates["client_name"] = *in.ClientName
	}
	if in.Enabled != nil {
		updates["enabled"] = *in.Enabled
	}

	if len(updates) == 0 {
		return &client, nil
	}

	if err := db.Model(&client).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// DisableClient soft-disables a tenant. Its users and projects keep their
// rows; access is blocked by the enabled flag.
func DisableClient(db *gorm.DB, clientID uint64) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "client_id = ?", clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errClientNotFound
		}
		return nil, err
	}

	if err := db.Model(&client).Update("enabled", false).Error; err != nil {
		return nil, err
	}

	return &client, nil
}
