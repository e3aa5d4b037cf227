package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must not be negative")
)

type ExpenseUsecase interface {
	CreateExpense(ctx context.Context, actorID int64, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	GetAllExpenses(ctx context.Context, query *dto.ExpenseListQuery) ([]dto.ExpenseResponse, int64, error)
	GetExpense(ctx context.Context, id int64) (*dto.ExpenseResponse, error)
	UpdateExpense(ctx context.Context, actorID, id int64, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, actorID, id int64) error
}

type expenseUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	expenseRepo  repository.ExpenseRepository
	auditService service.AuditService
	publisher    events.Publisher
}

func NewExpenseUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	expenseRepo repository.ExpenseRepository,
	auditService service.AuditService,
	publisher events.Publisher,
) ExpenseUsecase {
	return &expenseUsecase{
		db:           db,
		log:          log,
		expenseRepo:  expenseRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

func (u *expenseUsecase) CreateExpense(ctx context.Context, actorID int64, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	spentAt, err := time.Parse("2006-01-02", req.SpentAt)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	expense := &entity.Expense{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		SpentAt:     spentAt,
		CreatedBy:   &actorID,
	}

	if err := u.expenseRepo.Create(ctx, u.db, expense); err != nil {
		u.log.Warnf("Failed to create expense: %+v", err)
		return nil, err
	}

	resp := converter.ExpenseToResponse(expense)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionExpenseCreate, "expense", idString(expense.ID), resp)
	u.publisher.Publish(events.ExpenseCreated, resp)
	return resp, nil
}

func (u *expenseUsecase) GetAllExpenses(ctx context.Context, query *dto.ExpenseListQuery) ([]dto.ExpenseResponse, int64, error) {
	_, limit, offset := paginate(query.Page, query.Limit)

	filter := &entity.ExpenseFilter{
		Category: query.Category,
		From:     query.From,
		To:       query.To,
	}

	expenses, total, err := u.expenseRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find expenses: %+v", err)
		return nil, 0, err
	}
	return converter.ExpensesToResponses(expenses), total, nil
}

func (u *expenseUsecase) GetExpense(ctx context.Context, id int64) (*dto.ExpenseResponse, error) {
	expense, err := u.expenseRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find expense: %+v", err)
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return converter.ExpenseToResponse(expense), nil
}

func (u *expenseUsecase) UpdateExpense(ctx context.Context, actorID, id int64, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	spentAt, err := time.Parse("2006-01-02", req.SpentAt)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	expense, err := u.expenseRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find expense: %+v", err)
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	oldValue := converter.ExpenseToResponse(expense)

	expense.Description = req.Description
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.SpentAt = spentAt

	if err := u.expenseRepo.Update(ctx, tx, expense); err != nil {
		u.log.Warnf("Failed to update expense: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.ExpenseToResponse(expense)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionExpenseUpdate, "expense", idString(id), oldValue, resp)
	u.publisher.Publish(events.ExpenseUpdated, resp)
	return resp, nil
}

func (u *expenseUsecase) DeleteExpense(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	expense, err := u.expenseRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find expense: %+v", err)
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}

	if err := u.expenseRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete expense: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionExpenseDelete, "expense", idString(id), converter.ExpenseToResponse(expense))
	u.publisher.Publish(events.ExpenseDeleted, map[string]int64{"id": id})
	return nil
}
