package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type SalesAgentRepository interface {
	Create(ctx context.Context, db *gorm.DB, agent *entity.SalesAgent) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.SalesAgent, error)
	FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.SalesAgent, error)
	Update(ctx context.Context, db *gorm.DB, agent *entity.SalesAgent) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
