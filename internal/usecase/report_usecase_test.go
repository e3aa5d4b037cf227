package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-backoffice/internal/domain/entity"
	repoimpl "clinic-backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummaryAggregates(t *testing.T) {
	db := newTestDB(t)
	uc := NewReportUsecase(db, newTestLogger(), repoimpl.NewSaleRepository(), repoimpl.NewExpenseRepository())
	ctx := context.Background()

	empty, err := uc.GetSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.SalesCount)
	assert.True(t, empty.SalesTotal.IsZero())
	assert.True(t, empty.Net.IsZero())

	role := seedRole(t, db, "cashier")
	cashier := seedUser(t, db, role.ID, "c@clinic.test")
	patient := &entity.Patient{FullName: "P"}
	require.NoError(t, db.Create(patient).Error)

	for _, total := range []string{"22.50", "10.00"} {
		sale := &entity.Sale{PatientID: patient.ID, CashierID: cashier.ID, Total: dec(total), DiscountType: entity.DiscountFixed}
		require.NoError(t, db.Omit("Patient", "SalesAgent", "Cashier", "Items").Create(sale).Error)
	}
	require.NoError(t, db.Create(&entity.Expense{Description: "rent", Amount: dec("12.25"), SpentAt: time.Now()}).Error)

	summary, err := uc.GetSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.SalesCount)
	assert.True(t, dec("32.50").Equal(summary.SalesTotal), "sales %s", summary.SalesTotal)
	assert.True(t, dec("12.25").Equal(summary.ExpenseTotal), "expenses %s", summary.ExpenseTotal)
	assert.True(t, dec("20.25").Equal(summary.Net), "net %s", summary.Net)
}

func TestGetSummaryRejectsInvertedRange(t *testing.T) {
	uc := NewReportUsecase(nil, newTestLogger(), repoimpl.NewSaleRepository(), repoimpl.NewExpenseRepository())

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := uc.GetSummary(context.Background(), &from, &to)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
