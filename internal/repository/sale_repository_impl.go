package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepository struct{}

func NewSaleRepository() domainRepo.SaleRepository {
	return &saleRepository{}
}

func (r *saleRepository) Create(ctx context.Context, db *gorm.DB, sale *entity.Sale) error {
	return db.WithContext(ctx).Omit("Patient", "SalesAgent", "Cashier", "Items").Create(sale).Error
}

func (r *saleRepository) CreateItems(ctx context.Context, db *gorm.DB, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *saleRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Sale, error) {
	var sale entity.Sale
	err := db.WithContext(ctx).
		Preload("Patient").
		Preload("SalesAgent").
		Preload("Cashier").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("sale_items.id ASC") }).
		Preload("Items.Product").
		Where("id = ?", id).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindItems(ctx context.Context, db *gorm.DB, saleID int64) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	if err := db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applySaleFilter(query *gorm.DB, filter *entity.SaleFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.SalesAgentID != nil {
		query = query.Where("sales_agent_id = ?", *filter.SalesAgentID)
	}
	if filter.CashierID != nil {
		query = query.Where("cashier_id = ?", *filter.CashierID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

func (r *saleRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.SaleFilter, limit, offset int) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := applySaleFilter(db.WithContext(ctx).Model(&entity.Sale{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.
		Preload("Patient").
		Preload("SalesAgent").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("sale_items.id ASC") }).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *saleRepository) Update(ctx context.Context, db *gorm.DB, sale *entity.Sale) error {
	return db.WithContext(ctx).Omit("Patient", "SalesAgent", "Cashier", "Items").Save(sale).Error
}

func (r *saleRepository) UpdateTotal(ctx context.Context, db *gorm.DB, id int64, total decimal.Decimal) error {
	return db.WithContext(ctx).Model(&entity.Sale{}).Where("id = ?", id).Update("total", total).Error
}

func (r *saleRepository) DeleteItems(ctx context.Context, db *gorm.DB, saleID int64) error {
	return db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&entity.SaleItem{}).Error
}

func (r *saleRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Sale{})
	return result.RowsAffected, result.Error
}

// Summarize returns the number of matching sales and the sum of their totals.
func (r *saleRepository) Summarize(ctx context.Context, db *gorm.DB, filter *entity.SaleFilter) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.NullDecimal
	}
	err := applySaleFilter(db.WithContext(ctx).Model(&entity.Sale{}), filter).
		Select("COUNT(*) AS count, SUM(total) AS total").
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	if !row.Total.Valid {
		return row.Count, decimal.Zero, nil
	}
	return row.Count, row.Total.Decimal, nil
}
