package handler

import (
	"errors"
	"net/http"

	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reportUsecase: reportUsecase}
}

// GetSummary handles the sales and expense summary
// @Summary Financial summary
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD), inclusive"
// @Success 200 {object} response.Response
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		response.BadRequest(w, "Invalid date range")
		return
	}

	summary, err := h.reportUsecase.GetSummary(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDateRange) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to build summary")
		return
	}

	response.Success(w, http.StatusOK, "Summary retrieved successfully", summary)
}
