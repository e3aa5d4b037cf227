package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,min=2"`
	Category    string          `json:"category" validate:"max=100"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     string          `json:"spent_at" validate:"required,datetime=2006-01-02"`
}

type UpdateExpenseRequest struct {
	Description string          `json:"description" validate:"required,min=2"`
	Category    string          `json:"category" validate:"max=100"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     string          `json:"spent_at" validate:"required,datetime=2006-01-02"`
}

type ExpenseListQuery struct {
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// Response DTOs

type ExpenseResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     string          `json:"spent_at"`
	CreatedBy   *int64          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
