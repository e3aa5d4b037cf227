package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SummaryResponse struct {
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	SalesCount   int64           `json:"sales_count"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Net          decimal.Decimal `json:"net"`
}
