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

type SalesAgentHandler struct {
	salesAgentUsecase usecase.SalesAgentUsecase
	validator         *validator.CustomValidator
}

func NewSalesAgentHandler(salesAgentUsecase usecase.SalesAgentUsecase, validator *validator.CustomValidator) *SalesAgentHandler {
	return &SalesAgentHandler{
		salesAgentUsecase: salesAgentUsecase,
		validator:         validator,
	}
}

func (h *SalesAgentHandler) CreateSalesAgent(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateSalesAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	agent, err := h.salesAgentUsecase.CreateSalesAgent(r.Context(), actorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCommissionRate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create sales agent")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Sales agent created successfully", agent)
}

// GetAllSalesAgents lists agents; active_only=true hides deactivated ones.
func (h *SalesAgentHandler) GetAllSalesAgents(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active_only")
	if err != nil {
		response.BadRequest(w, "Invalid active_only filter")
		return
	}

	agents, err := h.salesAgentUsecase.GetAllSalesAgents(r.Context(), activeOnly != nil && *activeOnly)
	if err != nil {
		response.InternalServerError(w, "Failed to get sales agents")
		return
	}

	response.Success(w, http.StatusOK, "Sales agents retrieved successfully", agents)
}

func (h *SalesAgentHandler) GetSalesAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sales agent ID", nil)
		return
	}

	agent, err := h.salesAgentUsecase.GetSalesAgent(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrSalesAgentNotFound:
			response.NotFound(w, "Sales agent not found")
		default:
			response.InternalServerError(w, "Failed to get sales agent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sales agent retrieved successfully", agent)
}

func (h *SalesAgentHandler) UpdateSalesAgent(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sales agent ID", nil)
		return
	}

	var req dto.UpdateSalesAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	agent, err := h.salesAgentUsecase.UpdateSalesAgent(r.Context(), actorID, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrSalesAgentNotFound:
			response.NotFound(w, "Sales agent not found")
		case usecase.ErrInvalidCommissionRate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update sales agent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sales agent updated successfully", agent)
}

func (h *SalesAgentHandler) DeleteSalesAgent(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sales agent ID", nil)
		return
	}

	if err := h.salesAgentUsecase.DeleteSalesAgent(r.Context(), actorID, id); err != nil {
		switch err {
		case usecase.ErrSalesAgentNotFound:
			response.NotFound(w, "Sales agent not found")
		default:
			response.InternalServerError(w, "Failed to delete sales agent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sales agent deleted successfully", nil)
}
