package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Logger stores audit events as audit_logs rows.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	return l.db.WithContext(ctx).Create(ToModel(ev)).Error
}

func ToModel(ev Event) *models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return &models.AuditLog{
		BusinessID: ev.BusinessID,
		ActorID:    ev.ActorID,
		ActorRole:  ev.ActorRole,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}
}
