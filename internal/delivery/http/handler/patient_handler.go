package handler

import (
	"encoding/json"
	"net/http"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
	"clinic-backoffice/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), actorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	search := r.URL.Query().Get("q")
	if search == "" {
		search = r.URL.Query().Get("search")
	}

	patients, total, err := h.patientUsecase.GetAllPatients(r.Context(), search, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, response.NewMeta(page, limit, total))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), actorID, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), actorID, id); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrPatientHasSales:
			response.Conflict(w, "Patient has recorded sales")
		default:
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}
