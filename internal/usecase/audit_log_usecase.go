package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query *dto.AuditLogListQuery) ([]dto.AuditLogResponse, int64, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query *dto.AuditLogListQuery) ([]dto.AuditLogResponse, int64, error) {
	_, limit, offset := paginate(query.Page, query.Limit)

	filter := &entity.AuditLogFilter{
		UserID: query.UserID,
		Action: query.Action,
		Entity: query.Entity,
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, 0, err
	}

	return converter.AuditLogsToResponses(logs), total, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

// PurgeOlderThan deletes audit entries created before the given time.
func (u *auditLogUsecase) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := u.auditLogRepo.DeleteOlderThan(ctx, u.db, before)
	if err != nil {
		u.log.Warnf("Failed to purge audit logs: %+v", err)
		return 0, err
	}
	return deleted, nil
}
