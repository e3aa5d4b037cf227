package entity

import "time"

// User represents the centralized authentication table
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID    int64     `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Active reports whether the account may sign in. A nil flag counts as active.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
