package repository

import (
	"context"
	"time"

	"clinic-backoffice/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error)
	DeleteOlderThan(ctx context.Context, db *gorm.DB, before time.Time) (int64, error)
}
