// internal/models/audit.go
package models

import "github.com/google/uuid"

// AuditLog records every mutating request: who called, what they hit, and the
// request payload. Rows are append-only.
type AuditLog struct {
	BaseModel
	AccountID    *uuid.UUID `json:"account_id" gorm:"type:uuid;index"`
	Address      string     `json:"address" gorm:"size:128;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id" gorm:"size:64;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}
