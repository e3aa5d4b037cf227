package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.User, error)
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.User, int64, error)
	CountByRole(ctx context.Context, db *gorm.DB, roleID int64) (int64, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
