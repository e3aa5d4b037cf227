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

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

func writeUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, usecase.ErrRoleNotFound):
		response.BadRequest(w, "Role not found")
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, "Email already exists")
	case errors.Is(err, usecase.ErrCannotDeleteSelf):
		response.BadRequest(w, "You cannot delete your own account")
	case errors.Is(err, usecase.ErrUserInUse):
		response.Conflict(w, "User is referenced by sales")
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.CreateUser(r.Context(), actorID, &req)
	if err != nil {
		writeUserError(w, err, "Failed to create user")
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	users, total, err := h.userUsecase.GetAllUsers(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Users retrieved successfully", users, response.NewMeta(page, limit, total))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	user, err := h.userUsecase.GetUser(r.Context(), id)
	if err != nil {
		writeUserError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), actorID, id, &req)
	if err != nil {
		writeUserError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	if err := h.userUsecase.DeleteUser(r.Context(), actorID, id); err != nil {
		writeUserError(w, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
