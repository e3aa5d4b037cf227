package entity

import "time"

// Setting is a free-form key/value pair. Values are stored as text and
// converted on read.
type Setting struct {
	Key         string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingAuditRetentionDays = "audit.retention_days"
	SettingClinicName         = "clinic.name"
)
