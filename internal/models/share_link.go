package models

import "time"

// ShareLink is a bearer capability: whoever holds the token may read the
// linked content until ExpiresAt, with no permission check. It deliberately
// bypasses the permission system for external sharing.
type ShareLink struct {
	ShareLinkID uint64    `gorm:"primaryKey;autoIncrement" json:"shareLinkId"`
	ContentID   uint64    `gorm:"not null;index" json:"contentId"`
	Token       string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`

	Content *Content `gorm:"foreignKey:ContentID;references:ContentID" json:"content,omitempty"`
}

// TableName overrides the table name for ShareLink
func (ShareLink) TableName() string {
	return "share_links"
}
