package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type SaleItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

type CreateSaleRequest struct {
	PatientID    int64             `json:"patient_id" validate:"required,gt=0"`
	SalesAgentID *int64            `json:"sales_agent_id" validate:"omitempty,gt=0"`
	CashierID    *int64            `json:"cashier_id" validate:"omitempty,gt=0"`
	Discount     decimal.Decimal   `json:"discount"`
	DiscountType string            `json:"discount_type" validate:"omitempty,oneof=fixed percent"`
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateSaleItemRequest is a stored line as edited by the caller. A nil price
// is filled in from the product's current unit price times quantity.
type UpdateSaleItemRequest struct {
	ProductID             int64            `json:"product_id" validate:"required,gt=0"`
	Quantity              int              `json:"quantity" validate:"gte=0"`
	Price                 *decimal.Decimal `json:"price"`
	IsSupplementary       bool             `json:"is_supplementary"`
	SupplementaryParentID *int64           `json:"supplementary_parent_id" validate:"omitempty,gt=0"`
}

type UpdateSaleRequest struct {
	PatientID    int64                   `json:"patient_id" validate:"required,gt=0"`
	SalesAgentID *int64                  `json:"sales_agent_id" validate:"omitempty,gt=0"`
	Discount     decimal.Decimal         `json:"discount"`
	DiscountType string                  `json:"discount_type" validate:"omitempty,oneof=fixed percent"`
	Items        []UpdateSaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleListQuery carries the list filters taken from the query string.
type SaleListQuery struct {
	PatientID    *int64
	SalesAgentID *int64
	CashierID    *int64
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

// Response DTOs

type SaleItemResponse struct {
	ID                    int64           `json:"id"`
	ProductID             int64           `json:"product_id"`
	ProductName           string          `json:"product_name,omitempty"`
	Quantity              int             `json:"quantity"`
	Price                 decimal.Decimal `json:"price"`
	IsSupplementary       bool            `json:"is_supplementary"`
	SupplementaryParentID *int64          `json:"supplementary_parent_id,omitempty"`
}

type SaleResponse struct {
	ID             int64              `json:"id"`
	PatientID      int64              `json:"patient_id"`
	PatientName    string             `json:"patient_name,omitempty"`
	SalesAgentID   *int64             `json:"sales_agent_id,omitempty"`
	SalesAgentName string             `json:"sales_agent_name,omitempty"`
	CashierID      int64              `json:"cashier_id"`
	CashierName    string             `json:"cashier_name,omitempty"`
	Total          decimal.Decimal    `json:"total"`
	Discount       decimal.Decimal    `json:"discount"`
	DiscountType   string             `json:"discount_type"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type RecalculateResponse struct {
	ID    int64           `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// SaleExportRow is one CSV line of the sales export.
type SaleExportRow struct {
	ID           int64  `csv:"id"`
	CreatedAt    string `csv:"created_at"`
	PatientID    int64  `csv:"patient_id"`
	PatientName  string `csv:"patient_name"`
	SalesAgent   string `csv:"sales_agent"`
	CashierID    int64  `csv:"cashier_id"`
	ItemCount    int    `csv:"item_count"`
	Discount     string `csv:"discount"`
	DiscountType string `csv:"discount_type"`
	Total        string `csv:"total"`
}
