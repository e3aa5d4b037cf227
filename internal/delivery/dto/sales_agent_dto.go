package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateSalesAgentRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber    string          `json:"phone_number" validate:"omitempty,max=20"`
	Email          string          `json:"email" validate:"omitempty,email"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       *bool           `json:"is_active"`
}

type UpdateSalesAgentRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber    string          `json:"phone_number" validate:"omitempty,max=20"`
	Email          string          `json:"email" validate:"omitempty,email"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       *bool           `json:"is_active"`
}

// Response DTOs

type SalesAgentResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phone_number,omitempty"`
	Email          string          `json:"email,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
