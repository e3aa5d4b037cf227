package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, db *gorm.DB, expense *entity.Expense) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Expense, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.ExpenseFilter, limit, offset int) ([]entity.Expense, int64, error)
	Update(ctx context.Context, db *gorm.DB, expense *entity.Expense) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	SumAmount(ctx context.Context, db *gorm.DB, filter *entity.ExpenseFilter) (decimal.Decimal, error)
}
