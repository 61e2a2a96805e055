package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for audit trail entries.
// Rows are append-only; there is no domain aggregate behind them.
type AuditLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:varchar(100);not null;index"`
	Before    []byte    `gorm:"type:jsonb"`
	After     []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name
func (AuditLogModel) TableName() string {
	return "audit_logs"
}
