package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/shared"
)

// AuditLogHandler records every domain event to the application log.
// It subscribes with no type filter and so receives all events.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event metadata
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("org_id", event.OrgID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return []string{}
}
