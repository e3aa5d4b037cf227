package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

type productRepository struct{}

func NewProductRepository() domainRepo.ProductRepository {
	return &productRepository{}
}

func (r *productRepository) Create(ctx context.Context, db *gorm.DB, product *entity.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ProductFilter, limit, offset int) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := db.WithContext(ctx).Model(&entity.Product{})
	if filter != nil {
		if filter.Category != "" {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.Search != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.IsActive != nil {
			query = query.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Supplementary != nil {
			query = query.Where("is_supplementary = ?", *filter.Supplementary)
		}
		if filter.Standalone != nil {
			query = query.Where("can_sell_standalone = ?", *filter.Standalone)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("name ASC, id ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Product, error) {
	var product entity.Product
	err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// CountByIDs returns how many of ids exist. Callers pass de-duplicated ids.
func (r *productRepository) CountByIDs(ctx context.Context, db *gorm.DB, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := db.WithContext(ctx).Model(&entity.Product{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *productRepository) Update(ctx context.Context, db *gorm.DB, product *entity.Product) error {
	return db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Product{}).Error
}

// FindSupplementaries returns the linked products that still exist, in configured order.
func (r *productRepository) FindSupplementaries(ctx context.Context, db *gorm.DB, parentID int64) ([]entity.Product, error) {
	var products []entity.Product
	err := db.WithContext(ctx).
		Joins("JOIN product_supplementaries ps ON ps.supplementary_product_id = products.id").
		Where("ps.parent_product_id = ?", parentID).
		Order("ps.position ASC, products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindSupplementaryIDs(ctx context.Context, db *gorm.DB, parentID int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Model(&entity.SupplementaryLink{}).
		Where("parent_product_id = ?", parentID).
		Order("position ASC").
		Pluck("supplementary_product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceSupplementaries swaps the whole link set of parentID for supplementaryIDs.
func (r *productRepository) ReplaceSupplementaries(ctx context.Context, db *gorm.DB, parentID int64, supplementaryIDs []int64) error {
	if err := db.WithContext(ctx).Where("parent_product_id = ?", parentID).Delete(&entity.SupplementaryLink{}).Error; err != nil {
		return err
	}
	if len(supplementaryIDs) == 0 {
		return nil
	}

	links := make([]entity.SupplementaryLink, len(supplementaryIDs))
	for i, id := range supplementaryIDs {
		links[i] = entity.SupplementaryLink{
			ParentProductID:        parentID,
			SupplementaryProductID: id,
			Position:               i,
		}
	}
	return db.WithContext(ctx).Create(&links).Error
}

// DeleteLinks removes every link in which productID takes part, on either side.
func (r *productRepository) DeleteLinks(ctx context.Context, db *gorm.DB, productID int64) error {
	return db.WithContext(ctx).
		Where("parent_product_id = ? OR supplementary_product_id = ?", productID, productID).
		Delete(&entity.SupplementaryLink{}).Error
}
