package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType tells how Sale.Discount is interpreted
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountFixed || t == DiscountPercent
}

// Sale is a sale header. Total is derived from its items and discount.
type Sale struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    int64           `gorm:"not null;index" json:"patient_id"`
	SalesAgentID *int64          `gorm:"index" json:"sales_agent_id,omitempty"`
	CashierID    int64           `gorm:"not null;index" json:"cashier_id"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	DiscountType DiscountType    `gorm:"type:varchar(10);not null;default:'fixed'" json:"discount_type"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    *Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	SalesAgent *SalesAgent `gorm:"foreignKey:SalesAgentID" json:"sales_agent,omitempty"`
	Cashier    *User       `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	Items      []SaleItem  `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale. Price is unit price × quantity at sale time.
type SaleItem struct {
	ID                    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID                int64           `gorm:"not null;index" json:"sale_id"`
	ProductID             int64           `gorm:"not null;index" json:"product_id"`
	Quantity              int             `gorm:"not null;default:1" json:"quantity"`
	Price                 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsSupplementary       bool            `gorm:"not null;default:false" json:"is_supplementary"`
	SupplementaryParentID *int64          `json:"supplementary_parent_id,omitempty"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleFilter is a domain-level filter for listing sales.
type SaleFilter struct {
	PatientID    *int64
	SalesAgentID *int64
	CashierID    *int64
	From         *time.Time
	To           *time.Time
}
