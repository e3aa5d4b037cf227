package usecase

import (
	"context"
	"testing"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/events"
	repoimpl "clinic-backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingUpdateAndTypedReads(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	uc := NewSettingUsecase(db, newTestLogger(), repoimpl.NewSettingRepository(), newTestAuditService(db), publisher)
	ctx := context.Background()

	assert.Equal(t, 365, uc.GetInt(ctx, entity.SettingAuditRetentionDays, 365))

	resp, err := uc.UpdateSetting(ctx, 1, entity.SettingAuditRetentionDays, &dto.UpdateSettingRequest{Value: " 30 ", Description: "retention"})
	require.NoError(t, err)
	assert.Equal(t, entity.SettingAuditRetentionDays, resp.Key)
	assert.Equal(t, 30, uc.GetInt(ctx, entity.SettingAuditRetentionDays, 365))

	// description is kept when an update omits it
	_, err = uc.UpdateSetting(ctx, 1, entity.SettingAuditRetentionDays, &dto.UpdateSettingRequest{Value: "45"})
	require.NoError(t, err)
	got, err := uc.GetSetting(ctx, entity.SettingAuditRetentionDays)
	require.NoError(t, err)
	assert.Equal(t, "45", got.Value)
	assert.Equal(t, "retention", got.Description)

	assert.Equal(t, []string{events.SettingUpdated, events.SettingUpdated}, publisher.names())
}

func TestSettingRejectsInvalidRetention(t *testing.T) {
	db := newTestDB(t)
	uc := NewSettingUsecase(db, newTestLogger(), repoimpl.NewSettingRepository(), newTestAuditService(db), &recordingPublisher{})
	ctx := context.Background()

	for _, value := range []string{"-1", "soon"} {
		_, err := uc.UpdateSetting(ctx, 1, entity.SettingAuditRetentionDays, &dto.UpdateSettingRequest{Value: value})
		assert.ErrorIs(t, err, ErrInvalidSettingValue, value)
	}

	_, err := uc.GetSetting(ctx, entity.SettingAuditRetentionDays)
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettingTypedReadsFallBack(t *testing.T) {
	db := newTestDB(t)
	uc := NewSettingUsecase(db, newTestLogger(), repoimpl.NewSettingRepository(), newTestAuditService(db), &recordingPublisher{})
	ctx := context.Background()

	require.NoError(t, db.Create(&entity.Setting{Key: "feature.enabled", Value: "true"}).Error)
	require.NoError(t, db.Create(&entity.Setting{Key: "feature.limit", Value: "many"}).Error)

	assert.True(t, uc.GetBool(ctx, "feature.enabled", false))
	assert.False(t, uc.GetBool(ctx, "feature.missing", false))
	assert.Equal(t, 7, uc.GetInt(ctx, "feature.limit", 7))
	assert.Equal(t, "Clinic", uc.GetString(ctx, entity.SettingClinicName, "Clinic"))
}
