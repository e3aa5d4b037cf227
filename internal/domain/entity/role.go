package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Role groups users under a single permission grant.
// Permissions holds either catalog keys or the single wildcard "*".
type Role struct {
	ID          int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                      `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	Permissions datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"permissions"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleAdmin is the name of the role seeded at bootstrap with the wildcard grant.
const RoleAdmin = "admin"
