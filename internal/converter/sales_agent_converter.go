package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

func SalesAgentToResponse(agent *entity.SalesAgent) *dto.SalesAgentResponse {
	if agent == nil {
		return nil
	}

	return &dto.SalesAgentResponse{
		ID:             agent.ID,
		Name:           agent.Name,
		PhoneNumber:    agent.PhoneNumber,
		Email:          agent.Email,
		CommissionRate: agent.CommissionRate,
		IsActive:       agent.IsActive,
		CreatedAt:      agent.CreatedAt,
		UpdatedAt:      agent.UpdatedAt,
	}
}

func SalesAgentsToResponses(agents []entity.SalesAgent) []dto.SalesAgentResponse {
	responses := make([]dto.SalesAgentResponse, len(agents))
	for i := range agents {
		responses[i] = *SalesAgentToResponse(&agents[i])
	}
	return responses
}
