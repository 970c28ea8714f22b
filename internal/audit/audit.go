// Package audit records security-relevant actions. Writes are
// fire-and-forget: an audit failure is logged but never fails the action
// that produced it.
package audit

import (
	"context"
	"time"

	"campushub/internal/model"
	"campushub/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Logger dispatches audit events to the audit repository
type Logger struct {
	repo repository.IAuditRepository
}

func NewLogger(repo repository.IAuditRepository) *Logger {
	return &Logger{repo: repo}
}

// Log records an event asynchronously. The write uses its own context so it
// outlives the request that triggered it.
func (l *Logger) Log(action string, performedBy, institutionID primitive.ObjectID, details string) {
	event := &model.AuditEvent{
		EventID:       uuid.NewString(),
		Action:        action,
		PerformedBy:   performedBy,
		InstitutionID: institutionID,
		Details:       details,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := l.repo.Create(ctx, event); err != nil {
			zap.L().Error("audit write failed",
				zap.String("action", action),
				zap.String("eventId", event.EventID),
				zap.Error(err))
		}
	}()
}
