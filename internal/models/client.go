package models

import "time"

// Client is the root of multi-tenancy. A client owns users and projects.
// Disabling a client is a soft delete: data stays, access is blocked.
type Client struct {
	ClientID   uint64    `gorm:"primaryKey;autoIncrement" json:"clientId"`
	ClientName string    `gorm:"size:255;not null" json:"clientName"`
	Enabled    bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Client
func (Client) TableName() string {
	return "clients"
}
