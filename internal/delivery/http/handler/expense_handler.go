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
)

type ExpenseHandler struct {
	expenseUsecase usecase.ExpenseUsecase
	validator      *validator.CustomValidator
}

func NewExpenseHandler(expenseUsecase usecase.ExpenseUsecase, validator *validator.CustomValidator) *ExpenseHandler {
	return &ExpenseHandler{
		expenseUsecase: expenseUsecase,
		validator:      validator,
	}
}

func writeExpenseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrExpenseNotFound):
		response.NotFound(w, "Expense not found")
	case errors.Is(err, usecase.ErrInvalidAmount), errors.Is(err, usecase.ErrInvalidDateFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	expense, err := h.expenseUsecase.CreateExpense(r.Context(), actorID, &req)
	if err != nil {
		writeExpenseError(w, err, "Failed to create expense")
		return
	}

	response.Success(w, http.StatusCreated, "Expense created successfully", expense)
}

func (h *ExpenseHandler) GetAllExpenses(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	from, to, err := dateRange(r)
	if err != nil {
		response.BadRequest(w, "Invalid date range")
		return
	}

	query := &dto.ExpenseListQuery{
		Category: r.URL.Query().Get("category"),
		From:     from,
		To:       to,
		Page:     page,
		Limit:    limit,
	}

	expenses, total, err := h.expenseUsecase.GetAllExpenses(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get expenses")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Expenses retrieved successfully", expenses, response.NewMeta(page, limit, total))
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid expense ID", nil)
		return
	}

	expense, err := h.expenseUsecase.GetExpense(r.Context(), id)
	if err != nil {
		writeExpenseError(w, err, "Failed to get expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense retrieved successfully", expense)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid expense ID", nil)
		return
	}

	var req dto.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	expense, err := h.expenseUsecase.UpdateExpense(r.Context(), actorID, id, &req)
	if err != nil {
		writeExpenseError(w, err, "Failed to update expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense updated successfully", expense)
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid expense ID", nil)
		return
	}

	if err := h.expenseUsecase.DeleteExpense(r.Context(), actorID, id); err != nil {
		writeExpenseError(w, err, "Failed to delete expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense deleted successfully", nil)
}
