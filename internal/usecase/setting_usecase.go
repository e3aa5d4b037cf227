package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

var (
	ErrSettingNotFound     = errors.New("setting not found")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

type SettingUsecase interface {
	GetAllSettings(ctx context.Context) ([]dto.SettingResponse, error)
	GetSetting(ctx context.Context, key string) (*dto.SettingResponse, error)
	UpdateSetting(ctx context.Context, actorID int64, key string, req *dto.UpdateSettingRequest) (*dto.SettingResponse, error)

	// Typed reads fall back to def when the key is missing or unreadable.
	GetInt(ctx context.Context, key string, def int) int
	GetBool(ctx context.Context, key string, def bool) bool
	GetString(ctx context.Context, key string, def string) string
}

type settingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	settingRepo  repository.SettingRepository
	auditService service.AuditService
	publisher    events.Publisher
}

func NewSettingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	settingRepo repository.SettingRepository,
	auditService service.AuditService,
	publisher events.Publisher,
) SettingUsecase {
	return &settingUsecase{
		db:           db,
		log:          log,
		settingRepo:  settingRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// settingValidators holds value checks for keys the service itself reads.
var settingValidators = map[string]func(string) error{
	entity.SettingAuditRetentionDays: func(v string) error {
		days, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		if days < 0 {
			return errors.New("must not be negative")
		}
		return nil
	},
}

func (u *settingUsecase) GetAllSettings(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := u.settingRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find settings: %+v", err)
		return nil, err
	}
	return converter.SettingsToResponses(settings), nil
}

func (u *settingUsecase) GetSetting(ctx context.Context, key string) (*dto.SettingResponse, error) {
	setting, err := u.settingRepo.FindByKey(ctx, u.db, key)
	if err != nil {
		u.log.Warnf("Failed to find setting: %+v", err)
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}
	return converter.SettingToResponse(setting), nil
}

// UpdateSetting creates or overwrites key.
func (u *settingUsecase) UpdateSetting(ctx context.Context, actorID int64, key string, req *dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	if validate, ok := settingValidators[key]; ok {
		if err := validate(req.Value); err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrInvalidSettingValue, key, err)
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.settingRepo.FindByKey(ctx, tx, key)
	if err != nil {
		u.log.Warnf("Failed to find setting: %+v", err)
		return nil, err
	}

	setting := &entity.Setting{Key: key, Value: req.Value, Description: req.Description}
	if existing != nil && req.Description == "" {
		setting.Description = existing.Description
	}

	if err := u.settingRepo.Upsert(ctx, tx, setting); err != nil {
		u.log.Warnf("Failed to save setting: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.SettingToResponse(setting)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionSettingUpdate, "setting", key, converter.SettingToResponse(existing), resp)
	u.publisher.Publish(events.SettingUpdated, resp)
	return resp, nil
}

func (u *settingUsecase) lookup(ctx context.Context, key string) (string, bool) {
	setting, err := u.settingRepo.FindByKey(ctx, u.db, key)
	if err != nil {
		u.log.Warnf("Failed to read setting %s: %+v", key, err)
		return "", false
	}
	if setting == nil {
		return "", false
	}
	return strings.TrimSpace(setting.Value), true
}

func (u *settingUsecase) GetInt(ctx context.Context, key string, def int) int {
	v, ok := u.lookup(ctx, key)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		u.log.Warnf("Setting %s is not an integer: %q", key, v)
		return def
	}
	return n
}

func (u *settingUsecase) GetBool(ctx context.Context, key string, def bool) bool {
	v, ok := u.lookup(ctx, key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		u.log.Warnf("Setting %s is not a boolean: %q", key, v)
		return def
	}
	return b
}

func (u *settingUsecase) GetString(ctx context.Context, key string, def string) string {
	v, ok := u.lookup(ctx, key)
	if !ok || v == "" {
		return def
	}
	return v
}
