package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct{}

func NewSettingRepository() domainRepo.SettingRepository {
	return &settingRepository{}
}

func (r *settingRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Setting, error) {
	var settings []entity.Setting
	if err := db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) FindByKey(ctx context.Context, db *gorm.DB, key string) (*entity.Setting, error) {
	var setting entity.Setting
	err := db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Upsert(ctx context.Context, db *gorm.DB, setting *entity.Setting) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
}
