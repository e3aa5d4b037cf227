package service

import (
	"context"

	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records audit entries after a business transaction has committed.
// Failures are logged and never reach the caller.
type AuditService interface {
	LogCreate(ctx context.Context, userID *int64, action, entityName, entityID string, newValue interface{})
	LogUpdate(ctx context.Context, userID *int64, action, entityName, entityID string, oldValue, newValue interface{})
	LogDelete(ctx context.Context, userID *int64, action, entityName, entityID string, oldValue interface{})
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, userID *int64, action, entityName, entityID string, newValue interface{}) {
	s.write(ctx, userID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, userID *int64, action, entityName, entityID string, oldValue, newValue interface{}) {
	s.write(ctx, userID, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, userID *int64, action, entityName, entityID string, oldValue interface{}) {
	s.write(ctx, userID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, userID *int64, action, entityName, entityID string, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Metadata: entity.JSON{
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, s.db, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    action,
			"entity":    entityName,
			"entity_id": entityID,
		}).Warnf("Failed to create audit log: %+v", err)
	}
}
