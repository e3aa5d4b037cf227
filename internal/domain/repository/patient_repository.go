package repository

import (
	"context"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, search string, limit, offset int) ([]entity.Patient, int64, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
