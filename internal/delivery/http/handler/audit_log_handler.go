package handler

import (
	"net/http"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetAllAuditLogs handles listing audit logs
// @Summary List audit logs
// @Description Newest first, filterable by user, action and entity
// @Tags Audit Logs
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "User ID"
// @Param action query string false "Action"
// @Param entity query string false "Entity"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /audit-logs [get]
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		response.BadRequest(w, "Invalid user_id filter")
		return
	}

	query := &dto.AuditLogListQuery{
		UserID: userID,
		Action: r.URL.Query().Get("action"),
		Entity: r.URL.Query().Get("entity"),
		Page:   page,
		Limit:  limit,
	}

	logs, total, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", logs, response.NewMeta(page, limit, total))
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrAuditLogNotFound:
			response.NotFound(w, "Audit log not found")
		default:
			response.InternalServerError(w, "Failed to get audit log")
		}
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}
