package models

import "time"

// Project belongs to one client. Creation fans out a default permission row
// to every enabled user of that client.
type Project struct {
	ProjectID   uint64    `gorm:"primaryKey;autoIncrement" json:"projectId"`
	ProjectName string    `gorm:"size:255;not null" json:"projectName"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	ClientID    uint64    `gorm:"not null;index" json:"clientId"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}
