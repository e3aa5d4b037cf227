package repository

import (
	"context"
	"errors"

	"clinic-backoffice/internal/domain/entity"
	domainRepo "clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

type salesAgentRepository struct{}

func NewSalesAgentRepository() domainRepo.SalesAgentRepository {
	return &salesAgentRepository{}
}

func (r *salesAgentRepository) Create(ctx context.Context, db *gorm.DB, agent *entity.SalesAgent) error {
	return db.WithContext(ctx).Create(agent).Error
}

func (r *salesAgentRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.SalesAgent, error) {
	var agent entity.SalesAgent
	err := db.WithContext(ctx).Where("id = ?", id).First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r *salesAgentRepository) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.SalesAgent, error) {
	var agents []entity.SalesAgent
	query := db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *salesAgentRepository) Update(ctx context.Context, db *gorm.DB, agent *entity.SalesAgent) error {
	return db.WithContext(ctx).Save(agent).Error
}

func (r *salesAgentRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.SalesAgent{}).Error
}
