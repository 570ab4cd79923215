package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/survey-admin/internal/core/events"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
}

// auditWorkerCmd writes the audit log out of process from the events the
// API servers forward to NATS.
var auditWorkerCmd = &cobra.Command{
	Use:   "audit",
	Short: "Consume forwarded domain events from NATS and write audit records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Events.NATSURL == "" {
			return errors.New("events.nats_url (NATS_URL) is required for the audit worker")
		}
		lg := logger.LoggerWrapper()

		_, nc, err := events.ConnectNATS(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, lg)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				lg.Error("nats drain error", "error", err)
			}
		}()

		sub, err := events.SubscribeAudit(nc, cfg.Events.SubjectPrefix, events.NewAuditLogger(lg), lg)
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		lg.Info("audit worker started. Waiting for events...", "subject", sub.Subject)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		lg.Info("audit worker shutting down")
		return nil
	},
}

func init() {
	workerCmd.AddCommand(auditWorkerCmd)
}
