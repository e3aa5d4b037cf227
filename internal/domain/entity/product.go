package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category          string          `gorm:"type:varchar(100);index" json:"category,omitempty"`
	IsSupplementary   bool            `gorm:"not null;default:false;index" json:"is_supplementary"`
	ParentProductID   *int64          `gorm:"index" json:"parent_product_id,omitempty"`
	CanSellStandalone bool            `gorm:"not null;default:true" json:"can_sell_standalone"`
	IsActive          bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// SupplementaryLink is an edge of the many-to-many parent → supplementary relation.
// Position keeps the order in which supplementary products were configured.
type SupplementaryLink struct {
	ParentProductID        int64 `gorm:"primaryKey" json:"parent_product_id"`
	SupplementaryProductID int64 `gorm:"primaryKey;index" json:"supplementary_product_id"`
	Position               int   `gorm:"not null;default:0" json:"position"`
}

func (SupplementaryLink) TableName() string {
	return "product_supplementaries"
}

// ProductFilter is a domain-level filter for listing products.
type ProductFilter struct {
	Category      string
	Search        string
	IsActive      *bool
	Supplementary *bool
	Standalone    *bool
}
