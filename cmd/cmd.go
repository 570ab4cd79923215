package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "survey-admin",
	Short: "Survey Admin",
	Long:  `Administration backend for department surveys: users, departments, permission windows and submissions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Println("Error loading .env file, skipping:", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads config.yml from path when present, then applies ENV_*
// overrides and the plain deployment variables.
func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"env":                         "APP_ENV",
		"http_server.port":            "PORT",
		"http_server.allowed_origins": "FRONTEND_ORIGIN",
		"database.path":               "DATABASE_PATH",
		"security.session_secret":     "SESSION_SECRET",
		"session.redis_url":           "REDIS_URL",
		"events.nats_url":             "NATS_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "ENV_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	// no default, so the env override has to be bound explicitly
	if err := v.BindEnv("session.store"); err != nil {
		return nil, fmt.Errorf("error binding session store: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// a configured redis url implies the redis store unless one was chosen
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
		if cfg.Session.RedisURL != "" {
			cfg.Session.Store = "redis"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.Init(cfg.Env, cfg.Observability.Logging.Level)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("http_server.port", 3001)
	v.SetDefault("http_server.allowed_origins", "http://localhost:3000")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./database.sqlite")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("session.key_prefix", "survey-admin:session:")
	v.SetDefault("session.cookie_name", "sid")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("survey.enforce_permission_window", false)

	v.SetDefault("events.subject_prefix", "survey-admin")

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.logging.level", "")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(workerCmd)
}
