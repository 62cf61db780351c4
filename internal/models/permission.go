package models

import "time"

// Permission levels, ordered. A missing row means LevelNoAccess for that
// project. LevelMasterAdmin is never stored; it is the synthetic effective
// level reported for master admins in API payloads.
const (
	LevelNoAccess       = 0
	LevelViewer         = 1
	LevelEditor         = 2
	LevelProjectManager = 3

	LevelMasterAdmin = 99
)

// DefaultProjectLevel is the level fanned out when a project or user is
// created.
const DefaultProjectLevel = LevelEditor

// Permission maps (userId, projectId) to a level. Rows are created by the
// project/user creation fan-outs and mutated by the permission update
// endpoint or the admin delegation workflow; they are never deleted in
// normal operation.
type Permission struct {
	PermissionID uint64    `gorm:"primaryKey;autoIncrement" json:"permissionId"`
	UserID       uint64    `gorm:"not null;index:idx_user_project,unique" json:"userId"`
	ProjectID    uint64    `gorm:"not null;index:idx_user_project,unique" json:"projectId"`
	Level        int       `gorm:"not null;default:0" json:"level"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Permission
func (Permission) TableName() string {
	return "permissions"
}
