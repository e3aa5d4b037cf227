package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type expenseRepository struct{}

func NewExpenseRepository() domainRepo.ExpenseRepository {
	return &expenseRepository{}
}

func (r *expenseRepository) Create(ctx context.Context, db *gorm.DB, expense *entity.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Expense, error) {
	var expense entity.Expense
	err := db.WithContext(ctx).Where("id = ?", id).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func applyExpenseFilter(query *gorm.DB, filter *entity.ExpenseFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("spent_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("spent_at < ?", *filter.To)
	}
	return query
}

func (r *expenseRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ExpenseFilter, limit, offset int) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := applyExpenseFilter(db.WithContext(ctx).Model(&entity.Expense{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("spent_at DESC, id DESC").Limit(limit).Offset(offset).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, db *gorm.DB, expense *entity.Expense) error {
	return db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Expense{}).Error
}

func (r *expenseRepository) SumAmount(ctx context.Context, db *gorm.DB, filter *entity.ExpenseFilter) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := applyExpenseFilter(db.WithContext(ctx).Model(&entity.Expense{}), filter).
		Select("SUM(amount) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
