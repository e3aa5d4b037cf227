package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

func ExpenseToResponse(expense *entity.Expense) *dto.ExpenseResponse {
	if expense == nil {
		return nil
	}

	return &dto.ExpenseResponse{
		ID:          expense.ID,
		Description: expense.Description,
		Category:    expense.Category,
		Amount:      expense.Amount,
		SpentAt:     expense.SpentAt.Format(dateLayout),
		CreatedBy:   expense.CreatedBy,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}

func ExpensesToResponses(expenses []entity.Expense) []dto.ExpenseResponse {
	responses := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = *ExpenseToResponse(&expenses[i])
	}
	return responses
}
