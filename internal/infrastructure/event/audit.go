package event

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/restoops/backend/internal/domain/shared"
)

// AuditLogHandler writes every domain event to the structured log. It
// subscribes as a wildcard handler and serves as the audit trail of ledger
// and count activity.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event with its full payload
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		payload = []byte("{}")
	}
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.ByteString("payload", payload),
	)
	return nil
}

// EventTypes returns an empty slice: the audit trail covers all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
