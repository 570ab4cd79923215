package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	"github.com/frahmantamala/survey-admin/internal/core/events"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport/rest"
	"gorm.io/gorm"
)

const memorySweepInterval = 5 * time.Minute

// openDatabase connects and, when configured, brings the schema up to date.
func openDatabase(cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			closeDatabase(db, logger)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	logger.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

func closeDatabase(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}

// newEventBus builds the in-process bus with audit logging attached and, if
// a NATS url is configured, the NATS forwarder. The returned func drains the
// NATS connection.
func newEventBus(cfg internal.EventsConfig, logger *slog.Logger) (*events.EventBus, func(), error) {
	bus := events.NewEventBus(logger)
	events.NewAuditLogger(logger).Attach(bus)

	if cfg.NATSURL == "" {
		return bus, func() {}, nil
	}

	forwarder, nc, err := events.ConnectNATS(cfg.NATSURL, cfg.SubjectPrefix, logger)
	if err != nil {
		return nil, nil, err
	}
	forwarder.Attach(bus)
	logger.Info("forwarding domain events to nats", "subject_prefix", cfg.SubjectPrefix)

	return bus, func() {
		if err := nc.Drain(); err != nil {
			logger.Error("nats drain error", "error", err)
		}
	}, nil
}

// newSessionStore returns the configured store, a closer and a health check.
func newSessionStore(ctx context.Context, cfg internal.SessionConfig, logger *slog.Logger) (session.Store, func() error, rest.CheckFunc, error) {
	switch cfg.Store {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using redis session store", "key_prefix", cfg.KeyPrefix)
		check := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return session.NewRedisStore(rdb, cfg.KeyPrefix), rdb.Close, check, nil
	default:
		logger.Info("using in-memory session store")
		store := session.NewMemoryStore(memorySweepInterval)
		return store, store.Close, nil, nil
	}
}
