package models

import "time"

// User belongs to exactly one client. Master admins have global scope and
// bypass the tenant boundary entirely. At most one user per client carries
// IsClientAdmin; the delegation workflow maintains that invariant, there is
// no database constraint for it.
type User struct {
	UserID        uint64    `gorm:"primaryKey;autoIncrement" json:"userId"`
	ClientID      uint64    `gorm:"not null;index" json:"clientId"`
	UserName      string    `gorm:"size:255;not null" json:"userName"`
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	IsMasterAdmin bool      `gorm:"not null;default:false" json:"isMasterAdmin"`
	IsClientAdmin bool      `gorm:"not null;default:false" json:"isClientAdmin"`
	Enabled       bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
