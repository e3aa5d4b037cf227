package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

func RoleToResponse(role *entity.Role) *dto.RoleResponse {
	if role == nil {
		return nil
	}

	permissions := []string(role.Permissions)
	if permissions == nil {
		permissions = []string{}
	}

	return &dto.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permissions,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func RolesToResponses(roles []entity.Role) []dto.RoleResponse {
	responses := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		responses[i] = *RoleToResponse(&roles[i])
	}
	return responses
}
