package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// FindAll supports an optional search on name or phone number.
func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, search string, limit, offset int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := db.WithContext(ctx).Model(&entity.Patient{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR phone_number LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("full_name ASC, id ASC").Limit(limit).Offset(offset).Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Patient{}).Error
}
