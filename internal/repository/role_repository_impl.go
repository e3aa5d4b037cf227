package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) Create(ctx context.Context, db *gorm.DB, role *entity.Role) error {
	return db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Role, error) {
	var role entity.Role
	err := db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	err := db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error) {
	var roles []entity.Role
	if err := db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, db *gorm.DB, role *entity.Role) error {
	return db.WithContext(ctx).Omit("Users").Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Role{}).Error
}
