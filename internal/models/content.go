package models

import "time"

// Content is a single item inside a project: a 360 tour, a document, an
// aerial view, a live cam. Category is an open tag used for filtering, not
// an enum the service enforces. Metadata carries per-category extras such as
// tour scene configuration or cam stream parameters.
type Content struct {
	ContentID   uint64    `gorm:"primaryKey;autoIncrement" json:"contentId"`
	ProjectID   uint64    `gorm:"not null;index" json:"projectId"`
	Category    string    `gorm:"size:64;not null;index" json:"category"`
	ContentName string    `gorm:"size:255;not null" json:"contentName"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	Date        time.Time `gorm:"not null" json:"date"`
	Metadata    JSON      `gorm:"type:json" json:"metadata,omitempty"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName overrides the table name for Content
func (Content) TableName() string {
	return "contents"
}
