package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/survey-admin/internal/core/events"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events through the configured bus: audit log and, when NATS is configured, the forwarder.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	bus, closeBus, err := newEventBus(cfg.Events, lg)
	if err != nil {
		return err
	}
	defer closeBus()

	known := false
	for _, t := range events.DomainEventTypes {
		if t == eventType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown event type %q, expected one of %v", eventType, events.DomainEventTypes)
	}

	testEvent := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)
	if err := bus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
}
