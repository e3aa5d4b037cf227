package entity

import "time"

// Patient is a clinic customer. Sales reference patients by id.
type Patient struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName    string     `gorm:"type:varchar(255);not null;index" json:"full_name"`
	PhoneNumber string     `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:char(1)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
