package dto

import (
	"time"

	"clinic-backoffice/internal/domain/entity"
)

type AuditLogListQuery struct {
	UserID *int64
	Action string
	Entity string
	Page   int
	Limit  int
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Entity    string        `json:"entity,omitempty"`
	EntityID  string        `json:"entity_id,omitempty"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}
