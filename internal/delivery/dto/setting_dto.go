package dto

import "time"

type UpdateSettingRequest struct {
	Value       string `json:"value" validate:"max=2000"`
	Description string `json:"description"`
}

type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
