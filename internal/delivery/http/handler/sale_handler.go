package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/pricing"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
	"clinic-backoffice/pkg/validator"
)

type SaleHandler struct {
	saleUsecase usecase.SaleUsecase
	validator   *validator.CustomValidator
}

func NewSaleHandler(saleUsecase usecase.SaleUsecase, validator *validator.CustomValidator) *SaleHandler {
	return &SaleHandler{
		saleUsecase: saleUsecase,
		validator:   validator,
	}
}

func writeSaleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrSaleNotFound):
		response.NotFound(w, "Sale not found")
	case errors.Is(err, pricing.ErrProductNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrSalesAgentNotFound),
		errors.Is(err, usecase.ErrCashierNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidItemPrice),
		errors.Is(err, pricing.ErrInvalidDiscount):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// CreateSale records a sale and prices it
// @Summary Create a sale
// @Description Create a sale with its items. The total is computed by the server.
// @Tags Sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSaleRequest true "Create Sale Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sales [post]
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sale, err := h.saleUsecase.CreateSale(r.Context(), actorID, &req)
	if err != nil {
		writeSaleError(w, err, "Failed to create sale")
		return
	}

	response.Success(w, http.StatusCreated, "Sale created successfully", sale)
}

// ListSales returns sales matching the query filters
// @Summary List sales
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param patient_id query int false "Patient ID"
// @Param sales_agent_id query int false "Sales agent ID"
// @Param cashier_id query int false "Cashier ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD), inclusive"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /sales [get]
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	query, err := saleQuery(r)
	if err != nil {
		response.BadRequest(w, "Invalid query parameters")
		return
	}

	sales, total, err := h.saleUsecase.ListSales(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get sales")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Sales retrieved successfully", sales, response.NewMeta(query.Page, query.Limit, total))
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sale ID", nil)
		return
	}

	sale, err := h.saleUsecase.GetSale(r.Context(), id)
	if err != nil {
		writeSaleError(w, err, "Failed to get sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale retrieved successfully", sale)
}

func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sale ID", nil)
		return
	}

	var req dto.UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sale, err := h.saleUsecase.UpdateSale(r.Context(), actorID, id, &req)
	if err != nil {
		writeSaleError(w, err, "Failed to update sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale updated successfully", sale)
}

// RecalculateTotal reprices a stored sale from its items
// @Summary Recalculate sale total
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sales/{id}/recalculate [post]
func (h *SaleHandler) RecalculateTotal(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sale ID", nil)
		return
	}

	result, err := h.saleUsecase.RecalculateTotal(r.Context(), actorID, id)
	if err != nil {
		writeSaleError(w, err, "Failed to recalculate sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale total recalculated", result)
}

func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid sale ID", nil)
		return
	}

	if err := h.saleUsecase.DeleteSale(r.Context(), actorID, id); err != nil {
		writeSaleError(w, err, "Failed to delete sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale deleted successfully", nil)
}

// ExportSales streams the filtered sales as CSV
// @Summary Export sales
// @Tags Sales
// @Security BearerAuth
// @Produce text/csv
// @Router /sales/export [get]
func (h *SaleHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	query, err := saleQuery(r)
	if err != nil {
		response.BadRequest(w, "Invalid query parameters")
		return
	}

	// Buffered so a failed export can still answer with a JSON error.
	var buf bytes.Buffer
	if err := h.saleUsecase.ExportSales(r.Context(), query, &buf); err != nil {
		response.InternalServerError(w, "Failed to export sales")
		return
	}

	filename := fmt.Sprintf("sales-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func saleQuery(r *http.Request) (*dto.SaleListQuery, error) {
	page, limit := pageParams(r)
	query := &dto.SaleListQuery{Page: page, Limit: limit}

	var err error
	if query.PatientID, err = queryInt64(r, "patient_id"); err != nil {
		return nil, err
	}
	if query.SalesAgentID, err = queryInt64(r, "sales_agent_id"); err != nil {
		return nil, err
	}
	if query.CashierID, err = queryInt64(r, "cashier_id"); err != nil {
		return nil, err
	}
	if query.From, query.To, err = dateRange(r); err != nil {
		return nil, err
	}
	return query, nil
}
