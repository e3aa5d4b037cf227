package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, db *gorm.DB, sale *entity.Sale) error
	CreateItems(ctx context.Context, db *gorm.DB, items []entity.SaleItem) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Sale, error)
	FindItems(ctx context.Context, db *gorm.DB, saleID int64) ([]entity.SaleItem, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.SaleFilter, limit, offset int) ([]entity.Sale, int64, error)
	Update(ctx context.Context, db *gorm.DB, sale *entity.Sale) error
	UpdateTotal(ctx context.Context, db *gorm.DB, id int64, total decimal.Decimal) error
	DeleteItems(ctx context.Context, db *gorm.DB, saleID int64) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	Summarize(ctx context.Context, db *gorm.DB, filter *entity.SaleFilter) (int64, decimal.Decimal, error)
}
