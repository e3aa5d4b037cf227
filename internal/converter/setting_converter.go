package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

func SettingToResponse(setting *entity.Setting) *dto.SettingResponse {
	if setting == nil {
		return nil
	}

	return &dto.SettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		UpdatedAt:   setting.UpdatedAt,
	}
}

func SettingsToResponses(settings []entity.Setting) []dto.SettingResponse {
	responses := make([]dto.SettingResponse, len(settings))
	for i := range settings {
		responses[i] = *SettingToResponse(&settings[i])
	}
	return responses
}
