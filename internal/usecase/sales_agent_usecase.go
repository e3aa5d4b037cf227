package usecase

import (
	"context"
	"errors"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSalesAgentNotFound    = errors.New("sales agent not found")
	ErrInvalidCommissionRate = errors.New("commission rate must be between 0 and 100")
)

type SalesAgentUsecase interface {
	CreateSalesAgent(ctx context.Context, actorID int64, req *dto.CreateSalesAgentRequest) (*dto.SalesAgentResponse, error)
	GetAllSalesAgents(ctx context.Context, activeOnly bool) ([]dto.SalesAgentResponse, error)
	GetSalesAgent(ctx context.Context, id int64) (*dto.SalesAgentResponse, error)
	UpdateSalesAgent(ctx context.Context, actorID, id int64, req *dto.UpdateSalesAgentRequest) (*dto.SalesAgentResponse, error)
	DeleteSalesAgent(ctx context.Context, actorID, id int64) error
}

type salesAgentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	salesAgentRepo repository.SalesAgentRepository
	auditService   service.AuditService
}

func NewSalesAgentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	salesAgentRepo repository.SalesAgentRepository,
	auditService service.AuditService,
) SalesAgentUsecase {
	return &salesAgentUsecase{
		db:             db,
		log:            log,
		salesAgentRepo: salesAgentRepo,
		auditService:   auditService,
	}
}

var maxCommissionRate = decimal.NewFromInt(100)

func validCommissionRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && !rate.GreaterThan(maxCommissionRate)
}

func (u *salesAgentUsecase) CreateSalesAgent(ctx context.Context, actorID int64, req *dto.CreateSalesAgentRequest) (*dto.SalesAgentResponse, error) {
	if !validCommissionRate(req.CommissionRate) {
		return nil, ErrInvalidCommissionRate
	}

	agent := &entity.SalesAgent{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	if err := u.salesAgentRepo.Create(ctx, u.db, agent); err != nil {
		u.log.Warnf("Failed to create sales agent: %+v", err)
		return nil, err
	}

	resp := converter.SalesAgentToResponse(agent)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionSalesAgentCreate, "sales_agent", idString(agent.ID), resp)
	return resp, nil
}

func (u *salesAgentUsecase) GetAllSalesAgents(ctx context.Context, activeOnly bool) ([]dto.SalesAgentResponse, error) {
	agents, err := u.salesAgentRepo.FindAll(ctx, u.db, activeOnly)
	if err != nil {
		u.log.Warnf("Failed to find sales agents: %+v", err)
		return nil, err
	}
	return converter.SalesAgentsToResponses(agents), nil
}

func (u *salesAgentUsecase) GetSalesAgent(ctx context.Context, id int64) (*dto.SalesAgentResponse, error) {
	agent, err := u.salesAgentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find sales agent: %+v", err)
		return nil, err
	}
	if agent == nil {
		return nil, ErrSalesAgentNotFound
	}
	return converter.SalesAgentToResponse(agent), nil
}

func (u *salesAgentUsecase) UpdateSalesAgent(ctx context.Context, actorID, id int64, req *dto.UpdateSalesAgentRequest) (*dto.SalesAgentResponse, error) {
	if !validCommissionRate(req.CommissionRate) {
		return nil, ErrInvalidCommissionRate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	agent, err := u.salesAgentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sales agent: %+v", err)
		return nil, err
	}
	if agent == nil {
		return nil, ErrSalesAgentNotFound
	}
	oldValue := converter.SalesAgentToResponse(agent)

	agent.Name = req.Name
	agent.PhoneNumber = req.PhoneNumber
	agent.Email = req.Email
	agent.CommissionRate = req.CommissionRate
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	if err := u.salesAgentRepo.Update(ctx, tx, agent); err != nil {
		u.log.Warnf("Failed to update sales agent: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.SalesAgentToResponse(agent)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionSalesAgentUpdate, "sales_agent", idString(id), oldValue, resp)
	return resp, nil
}

// DeleteSalesAgent removes the agent. Sales that credited the agent keep
// their rows with the agent reference cleared.
func (u *salesAgentUsecase) DeleteSalesAgent(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	agent, err := u.salesAgentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sales agent: %+v", err)
		return err
	}
	if agent == nil {
		return ErrSalesAgentNotFound
	}

	if err := u.salesAgentRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete sales agent: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionSalesAgentDelete, "sales_agent", idString(id), converter.SalesAgentToResponse(agent))
	return nil
}
