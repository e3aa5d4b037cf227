package repository

import (
	"context"
	"errors"
	"time"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *auditLogRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error) {
	var logs []entity.AuditLog
	var total int64

	query := db.WithContext(ctx).Model(&entity.AuditLog{})
	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.Entity != "" {
			query = query.Where("entity = ?", filter.Entity)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how many were removed.
func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("created_at < ?", before).Delete(&entity.AuditLog{})
	return result.RowsAffected, result.Error
}
