package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/survey-admin/internal/core/events"
)

// MailAlerter notifies departments that a new permission window is open.
type MailAlerter interface {
	RequestAlert(ctx context.Context, actorID int64, payload map[string]interface{}) error
}

// NoopMailAlerter records the request and sends nothing. Mail delivery is
// not implemented.
type NoopMailAlerter struct {
	events events.Publisher
	logger *slog.Logger
}

func NewNoopMailAlerter(publisher events.Publisher, logger *slog.Logger) *NoopMailAlerter {
	return &NoopMailAlerter{events: publisher, logger: logger}
}

func (n *NoopMailAlerter) RequestAlert(ctx context.Context, actorID int64, payload map[string]interface{}) error {
	n.logger.InfoContext(ctx, "mail alert requested; delivery not implemented", "actor_id", actorID, "fields", len(payload))
	if n.events == nil {
		return nil
	}
	return n.events.Publish(ctx, events.NewMailAlertRequestedEvent(actorID, payload))
}
