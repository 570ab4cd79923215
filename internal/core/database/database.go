package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
	"github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
	"github.com/frahmantamala/survey-admin/internal/core/datamodel/submission"
	"github.com/frahmantamala/survey-admin/internal/core/datamodel/user"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const uniqueViolationCode = "23505"

// Open connects gorm to the configured store and applies the pool settings.
func Open(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == "sqlite" {
		// sqlite serializes writers anyway; a single connection avoids SQLITE_BUSY
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(min(cfg.MaxIdleConns, max(maxOpen, 1)))
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables the API needs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&department.Department{},
		&permission.Permission{},
		&submission.SurveySubmission{},
	)
}

// SQLX exposes gorm's pool to sqlx for hand-written aggregate queries.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, driverName(db)), nil
}

func driverName(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "pgx"
	}
	return "sqlite3"
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// OpenInMemory returns a migrated private sqlite database for tests.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open(internal.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate in-memory database: %w", err)
	}
	return db, nil
}
