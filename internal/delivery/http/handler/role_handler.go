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

type RoleHandler struct {
	roleUsecase usecase.RoleUsecase
	validator   *validator.CustomValidator
}

func NewRoleHandler(roleUsecase usecase.RoleUsecase, validator *validator.CustomValidator) *RoleHandler {
	return &RoleHandler{
		roleUsecase: roleUsecase,
		validator:   validator,
	}
}

func writeRoleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrRoleNotFound):
		response.NotFound(w, "Role not found")
	case errors.Is(err, usecase.ErrInvalidPermission):
		response.Error(w, http.StatusBadRequest, "Invalid permissions", err.Error())
	case errors.Is(err, usecase.ErrRoleNameExists):
		response.Conflict(w, "Role name already exists")
	case errors.Is(err, usecase.ErrRoleInUse):
		response.Conflict(w, "Role is still assigned to users")
	default:
		response.InternalServerError(w, fallback)
	}
}

// CreateRole handles role creation
// @Summary Create a role
// @Tags Roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRoleRequest true "Create Role Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles [post]
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	role, err := h.roleUsecase.CreateRole(r.Context(), actorID, &req)
	if err != nil {
		writeRoleError(w, err, "Failed to create role")
		return
	}

	response.Success(w, http.StatusCreated, "Role created successfully", role)
}

func (h *RoleHandler) GetAllRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleUsecase.GetAllRoles(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get roles")
		return
	}

	response.Success(w, http.StatusOK, "Roles retrieved successfully", roles)
}

func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid role ID", nil)
		return
	}

	role, err := h.roleUsecase.GetRole(r.Context(), id)
	if err != nil {
		writeRoleError(w, err, "Failed to get role")
		return
	}

	response.Success(w, http.StatusOK, "Role retrieved successfully", role)
}

func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid role ID", nil)
		return
	}

	var req dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	role, err := h.roleUsecase.UpdateRole(r.Context(), actorID, id, &req)
	if err != nil {
		writeRoleError(w, err, "Failed to update role")
		return
	}

	response.Success(w, http.StatusOK, "Role updated successfully", role)
}

func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid role ID", nil)
		return
	}

	if err := h.roleUsecase.DeleteRole(r.Context(), actorID, id); err != nil {
		writeRoleError(w, err, "Failed to delete role")
		return
	}

	response.Success(w, http.StatusOK, "Role deleted successfully", nil)
}

// GetPermissions returns the permission catalog grouped by module
func (h *RoleHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Permissions retrieved successfully", h.roleUsecase.GetPermissionTree(r.Context()))
}
