package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
	"clinic-backoffice/pkg/validator"

	"github.com/gorilla/mux"
)

type SettingHandler struct {
	settingUsecase usecase.SettingUsecase
	validator      *validator.CustomValidator
}

func NewSettingHandler(settingUsecase usecase.SettingUsecase, validator *validator.CustomValidator) *SettingHandler {
	return &SettingHandler{
		settingUsecase: settingUsecase,
		validator:      validator,
	}
}

func (h *SettingHandler) GetAllSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingUsecase.GetAllSettings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get settings")
		return
	}

	response.Success(w, http.StatusOK, "Settings retrieved successfully", settings)
}

func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settingUsecase.GetSetting(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		if errors.Is(err, usecase.ErrSettingNotFound) {
			response.NotFound(w, "Setting not found")
			return
		}
		response.InternalServerError(w, "Failed to get setting")
		return
	}

	response.Success(w, http.StatusOK, "Setting retrieved successfully", setting)
}

// UpdateSetting creates the key when it does not exist yet.
func (h *SettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	setting, err := h.settingUsecase.UpdateSetting(r.Context(), actorID, mux.Vars(r)["key"], &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSettingValue) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to update setting")
		return
	}

	response.Success(w, http.StatusOK, "Setting updated successfully", setting)
}
