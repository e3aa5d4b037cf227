package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesAgent is an optional referrer credited on a sale.
type SalesAgent struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber    string          `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Email          string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commission_rate"`
	IsActive       bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SalesAgent) TableName() string {
	return "sales_agents"
}
