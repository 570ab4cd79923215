package events

import (
	"context"
	"log/slog"
)

// AuditLogger writes one structured "audit" record per domain event.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Attach subscribes the audit logger to every domain event type.
func (a *AuditLogger) Attach(bus *EventBus) {
	bus.SubscribeAll(DomainEventTypes, a.Handle)
}

func (a *AuditLogger) Handle(ctx context.Context, event Event) error {
	a.logger.InfoContext(ctx, "audit",
		slog.String("event_type", event.EventType()),
		slog.String("event_id", event.EventID()),
		slog.Time("occurred_at", event.OccurredAt()),
		slog.Any("data", event.Payload()),
	)
	return nil
}
