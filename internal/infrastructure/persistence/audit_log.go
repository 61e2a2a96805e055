package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/infrastructure/persistence/models"
)

// GormAuditLog records state transitions in the audit_logs table.
// Writes are best-effort: failures are logged and never surface to the
// transition that triggered them.
type GormAuditLog struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditLog creates a new GORM-backed audit log
func NewGormAuditLog(db *gorm.DB, logger *zap.Logger) *GormAuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormAuditLog{db: db, logger: logger}
}

// Record appends an audit entry for the action
func (l *GormAuditLog) Record(ctx context.Context, actorID uuid.UUID, action string, before, after interface{}) {
	entry := models.AuditLogModel{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Before:    marshalState(before),
		After:     marshalState(after),
		CreatedAt: time.Now().UTC(),
	}

	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		l.logger.Error("failed to record audit entry",
			zap.String("action", action),
			zap.String("actor_id", actorID.String()),
			zap.Error(err))
	}
}

// marshalState serializes a state snapshot, nil becomes SQL NULL
func marshalState(v interface{}) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"marshal_error":true}`)
	}
	return data
}

// Ensure GormAuditLog implements AuditLog
var _ effect.AuditLog = (*GormAuditLog)(nil)
