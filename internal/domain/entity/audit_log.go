package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64    `gorm:"index" json:"user_id,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity    string    `gorm:"type:varchar(50);index" json:"entity"`
	EntityID  string    `gorm:"type:varchar(50)" json:"entity_id"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter is a domain-level filter for listing audit entries.
type AuditLogFilter struct {
	UserID *int64
	Action string
	Entity string
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionUserLogin        = "user.login"
	AuditActionUserLogout       = "user.logout"
	AuditActionUserCreate       = "user.create"
	AuditActionUserUpdate       = "user.update"
	AuditActionUserDelete       = "user.delete"
	AuditActionRoleCreate       = "role.create"
	AuditActionRoleUpdate       = "role.update"
	AuditActionRoleDelete       = "role.delete"
	AuditActionProductCreate    = "product.create"
	AuditActionProductUpdate    = "product.update"
	AuditActionProductDelete    = "product.delete"
	AuditActionSaleCreate       = "sale.create"
	AuditActionSaleUpdate       = "sale.update"
	AuditActionSaleDelete       = "sale.delete"
	AuditActionSaleRecalculate  = "sale.recalculate"
	AuditActionExpenseCreate    = "expense.create"
	AuditActionExpenseUpdate    = "expense.update"
	AuditActionExpenseDelete    = "expense.delete"
	AuditActionPatientCreate    = "patient.create"
	AuditActionPatientUpdate    = "patient.update"
	AuditActionPatientDelete    = "patient.delete"
	AuditActionSalesAgentCreate = "sales_agent.create"
	AuditActionSalesAgentUpdate = "sales_agent.update"
	AuditActionSalesAgentDelete = "sales_agent.delete"
	AuditActionSettingUpdate    = "setting.update"
)
