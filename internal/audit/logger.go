package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// Logger persists events to audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Handle(ctx context.Context, ev Event) error {
	return l.db.WithContext(ctx).Create(ToModel(ev)).Error
}

// ToModel flattens ev into an audit_logs row. Metadata that fails to marshal
// is stored empty.
func ToModel(ev Event) *models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := &models.AuditLog{
		ClinicID: ev.ClinicID,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}
	if !ev.OccurredAt.IsZero() {
		row.CreatedAt = ev.OccurredAt
	}
	return row
}
