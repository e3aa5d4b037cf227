package dto

import "time"

// Request DTOs

type CreatePatientRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type UpdatePatientRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// Response DTOs

type PatientResponse struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
