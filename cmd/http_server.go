package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/survey-admin/api"
	"github.com/frahmantamala/survey-admin/internal/auth"
	authPostgres "github.com/frahmantamala/survey-admin/internal/auth/postgres"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	"github.com/frahmantamala/survey-admin/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/survey-admin/internal/dashboard/postgres"
	"github.com/frahmantamala/survey-admin/internal/department"
	departmentPostgres "github.com/frahmantamala/survey-admin/internal/department/postgres"
	"github.com/frahmantamala/survey-admin/internal/permission"
	permissionPostgres "github.com/frahmantamala/survey-admin/internal/permission/postgres"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/survey"
	surveyPostgres "github.com/frahmantamala/survey-admin/internal/survey/postgres"
	"github.com/frahmantamala/survey-admin/internal/transport"
	"github.com/frahmantamala/survey-admin/internal/transport/rest"
	"github.com/frahmantamala/survey-admin/internal/user"
	userPostgres "github.com/frahmantamala/survey-admin/internal/user/postgres"
	"github.com/frahmantamala/survey-admin/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
			os.Exit(1)
		}
	},
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := api.Load(ctx); err != nil {
		return err
	}

	db, err := openDatabase(cfg.Database, lg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, lg)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return fmt.Errorf("failed to wrap connection pool: %w", err)
	}

	bus, closeBus, err := newEventBus(cfg.Events, lg)
	if err != nil {
		return err
	}
	defer closeBus()

	store, closeStore, storeCheck, err := newSessionStore(ctx, cfg.Session, lg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	sessions := session.NewManager(store, session.Config{
		CookieName: cfg.Session.CookieName,
		Secret:     []byte(cfg.Security.SessionSecret),
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, lg)

	base := transport.NewBaseHandler(lg)
	catalog := survey.NewFixtureCatalog()

	authService := auth.NewService(authPostgres.NewRepository(db), cfg.Security.BCryptCost, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(db), bus, lg)
	permissionService := permission.NewService(
		permissionPostgres.NewPermissionRepository(db),
		permission.NewNoopMailAlerter(bus, lg),
		bus, lg,
	)
	userService := user.NewService(userPostgres.NewUserRepository(db), authService, bus, lg)

	var windows survey.WindowChecker
	if cfg.Survey.EnforcePermissionWindow {
		windows = permissionService
		lg.Info("survey submissions are limited to open permission windows")
	}
	surveyService := survey.NewService(catalog, surveyPostgres.NewSubmissionRepository(db), departmentService, windows, bus, lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewDashboardRepository(sqlxDB), catalog, lg)

	healthChecks := map[string]rest.CheckFunc{"database": sqlDB.PingContext}
	if storeCheck != nil {
		healthChecks["sessions"] = storeCheck
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Dependencies{
		Logger:         lg,
		AllowedOrigins: cfg.Server.Origins(),
		Sessions:       sessions,
		Gate:           auth.NewGate(lg),
		HealthChecks:   healthChecks,
		MetricsPath:    metricsPath,
		Auth:           auth.NewHandler(base, authService, sessions, bus),
		Departments:    department.NewHandler(base, departmentService),
		Users:          user.NewHandler(base, userService),
		Permissions:    permission.NewHandler(base, permissionService),
		Surveys:        survey.NewHandler(base, surveyService),
		Dashboard:      dashboard.NewHandler(base, dashboardService),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("Starting HTTP server", "address", addr, "env", cfg.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		lg.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	lg.Info("Server stopped")
	return nil
}
