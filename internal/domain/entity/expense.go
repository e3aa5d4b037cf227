package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	SpentAt     time.Time       `gorm:"type:date;not null;index" json:"spent_at"`
	CreatedBy   *int64          `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ExpenseFilter is a domain-level filter for listing expenses.
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}
