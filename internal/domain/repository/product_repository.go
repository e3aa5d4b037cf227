package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, db *gorm.DB, product *entity.Product) error
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.ProductFilter, limit, offset int) ([]entity.Product, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Product, error)
	CountByIDs(ctx context.Context, db *gorm.DB, ids []int64) (int64, error)
	Update(ctx context.Context, db *gorm.DB, product *entity.Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error

	// Supplementary links
	FindSupplementaries(ctx context.Context, db *gorm.DB, parentID int64) ([]entity.Product, error)
	FindSupplementaryIDs(ctx context.Context, db *gorm.DB, parentID int64) ([]int64, error)
	ReplaceSupplementaries(ctx context.Context, db *gorm.DB, parentID int64, supplementaryIDs []int64) error
	DeleteLinks(ctx context.Context, db *gorm.DB, productID int64) error
}
