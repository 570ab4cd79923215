package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// natsPublisher is the subset of *nats.Conn the forwarder uses.
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// WireEvent is the JSON body of every message the forwarder publishes.
type WireEvent struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// DecodeWireEvent turns a forwarded message back into an event.
func DecodeWireEvent(data []byte) (BaseEvent, error) {
	var wire struct {
		ID         string                 `json:"id"`
		Type       string                 `json:"type"`
		OccurredAt time.Time              `json:"occurred_at"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if wire.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return BaseEvent{ID: wire.ID, Type: wire.Type, Timestamp: wire.OccurredAt, Data: wire.Data}, nil
}

// NATSForwarder relays domain events to NATS subjects named
// "<prefix>.<event type>".
type NATSForwarder struct {
	conn   natsPublisher
	prefix string
	logger *slog.Logger
}

// ConnectNATS dials url and returns a forwarder plus the connection so the
// caller can drain it on shutdown.
func ConnectNATS(url, prefix string, logger *slog.Logger) (*NATSForwarder, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("survey-admin"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return NewNATSForwarder(nc, prefix, logger), nc, nil
}

func NewNATSForwarder(conn natsPublisher, prefix string, logger *slog.Logger) *NATSForwarder {
	if prefix == "" {
		prefix = "survey-admin"
	}
	return &NATSForwarder{conn: conn, prefix: prefix, logger: logger}
}

func (f *NATSForwarder) Attach(bus *EventBus) {
	bus.SubscribeAll(DomainEventTypes, f.Forward)
}

func (f *NATSForwarder) Subject(eventType string) string {
	return f.prefix + "." + eventType
}

func (f *NATSForwarder) Forward(_ context.Context, event Event) error {
	data, err := json.Marshal(WireEvent{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID(), err)
	}

	subject := f.Subject(event.EventType())
	if err := f.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	f.logger.Debug("event forwarded to nats", "subject", subject, "event_id", event.EventID())
	return nil
}

// SubscribeAudit consumes every forwarded event under prefix and hands it to
// the audit logger. Malformed messages are logged and dropped.
func SubscribeAudit(nc *nats.Conn, prefix string, audit *AuditLogger, logger *slog.Logger) (*nats.Subscription, error) {
	if prefix == "" {
		prefix = "survey-admin"
	}
	return nc.Subscribe(prefix+".>", func(msg *nats.Msg) {
		event, err := DecodeWireEvent(msg.Data)
		if err != nil {
			logger.Warn("dropping malformed event", "subject", msg.Subject, "error", err)
			return
		}
		_ = audit.Handle(context.Background(), event)
	})
}
