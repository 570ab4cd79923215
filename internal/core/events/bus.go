package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is a fact about the admin domain: a login, a department created,
// a permission set replaced, a survey submitted.
type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

// BaseEvent is the concrete event every constructor in this package returns
// and the shape forwarded to NATS.
type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

// Publisher is the narrow view services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus fans domain events out to in-process subscribers such as the
// audit log and the NATS forwarder.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// SubscribeAll registers handler for each of the given event types.
func (eb *EventBus) SubscribeAll(eventTypes []string, handler Handler) {
	for _, eventType := range eventTypes {
		eb.Subscribe(eventType, handler)
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	n := len(eb.handlers[eventType])
	eb.mu.Unlock()

	eb.logger.Debug("subscriber attached", "event_type", eventType, "subscribers", n)
}

func (eb *EventBus) subscribers(event Event) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.handlers[event.EventType()]
}

// Publish hands event to every subscriber on its own goroutine and returns
// at once. Subscriber failures are logged and never reach the caller, so an
// audit or forwarding outage cannot fail an API request.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.subscribers(event)
	if len(handlers) == 0 {
		eb.logger.Debug("domain event dropped, no subscribers", "event_type", event.EventType())
		return nil
	}

	eb.logger.Debug("dispatching domain event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"subscribers", len(handlers))

	// subscribers outlive the request that raised the event
	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		go eb.deliver(detached, handler, event)
	}
	return nil
}

func (eb *EventBus) deliver(ctx context.Context, handler Handler, event Event) {
	if err := handler(ctx, event); err != nil {
		eb.logger.Error("domain event subscriber failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}

// PublishSync runs subscribers in order on the caller's goroutine and stops
// at the first failure. The CLI uses it to confirm delivery.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	handlers := eb.subscribers(event)
	if len(handlers) == 0 {
		eb.logger.Debug("domain event dropped, no subscribers", "event_type", event.EventType())
		return nil
	}

	for i, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("deliver %s to subscriber %d: %w", event.EventType(), i, err)
		}
	}
	eb.logger.Info("domain event delivered",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"subscribers", len(handlers))
	return nil
}
