package dto

import "time"

// Request DTOs

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest replaces the user's profile. An empty password keeps the current one.
type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
	IsActive *bool  `json:"is_active"`
}

// Response DTOs

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	RoleID    int64     `json:"role_id"`
	Role      string    `json:"role,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
