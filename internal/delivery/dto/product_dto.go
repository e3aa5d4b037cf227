package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category" validate:"max=100"`
	IsSupplementary   bool            `json:"is_supplementary"`
	ParentProductID   *int64          `json:"parent_product_id" validate:"omitempty,gt=0"`
	CanSellStandalone *bool           `json:"can_sell_standalone"`
	IsActive          *bool           `json:"is_active"`
	SupplementaryIDs  []int64         `json:"supplementary_ids" validate:"omitempty,dive,gt=0"`
}

type UpdateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category" validate:"max=100"`
	IsSupplementary   bool            `json:"is_supplementary"`
	ParentProductID   *int64          `json:"parent_product_id" validate:"omitempty,gt=0"`
	CanSellStandalone *bool           `json:"can_sell_standalone"`
	IsActive          *bool           `json:"is_active"`
	SupplementaryIDs  []int64         `json:"supplementary_ids" validate:"omitempty,dive,gt=0"`
}

// ProductListQuery carries the list filters taken from the query string.
type ProductListQuery struct {
	Category      string
	Search        string
	IsActive      *bool
	Supplementary *bool
	Standalone    *bool
	Page          int
	Limit         int
}

// Response DTOs

type ProductResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category,omitempty"`
	IsSupplementary   bool            `json:"is_supplementary"`
	ParentProductID   *int64          `json:"parent_product_id,omitempty"`
	CanSellStandalone bool            `json:"can_sell_standalone"`
	IsActive          bool            `json:"is_active"`
	SupplementaryIDs  []int64         `json:"supplementary_ids"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
