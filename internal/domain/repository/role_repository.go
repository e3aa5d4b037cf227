package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, db *gorm.DB, role *entity.Role) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Role, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error)
	Update(ctx context.Context, db *gorm.DB, role *entity.Role) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
