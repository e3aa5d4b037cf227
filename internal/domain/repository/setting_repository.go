package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type SettingRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Setting, error)
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, db *gorm.DB, setting *entity.Setting) error
}
