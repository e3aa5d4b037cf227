package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrInvalidDateRange = errors.New("from must be before to")

type ReportUsecase interface {
	GetSummary(ctx context.Context, from, to *time.Time) (*dto.SummaryResponse, error)
}

type reportUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
) ReportUsecase {
	return &reportUsecase{
		db:          db,
		log:         log,
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
	}
}

// GetSummary aggregates sales and expenses over [from, to). The aggregates
// are read concurrently.
func (u *reportUsecase) GetSummary(ctx context.Context, from, to *time.Time) (*dto.SummaryResponse, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, ErrInvalidDateRange
	}

	var (
		salesCount   int64
		salesTotal   decimal.Decimal
		expenseTotal decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		salesCount, salesTotal, err = u.saleRepo.Summarize(gctx, u.db, &entity.SaleFilter{From: from, To: to})
		return err
	})
	g.Go(func() error {
		var err error
		expenseTotal, err = u.expenseRepo.SumAmount(gctx, u.db, &entity.ExpenseFilter{From: from, To: to})
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build summary: %+v", err)
		return nil, err
	}

	return &dto.SummaryResponse{
		From:         from,
		To:           to,
		SalesCount:   salesCount,
		SalesTotal:   salesTotal,
		ExpenseTotal: expenseTotal,
		Net:          salesTotal.Sub(expenseTotal),
	}, nil
}
