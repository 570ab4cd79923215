package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/survey-admin/internal/core/database"
	departmentDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
	permissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
	submissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/submission"
	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	clearData     bool
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed an admin user, the default departments and an open permission window for development and testing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		db, err := openDatabase(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer closeDatabase(db, lg)

		if !cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		return seedDatabase(cmd.Context(), db, seedOptions{
			Clear:         clearData,
			AdminPassword: adminPassword,
			BCryptCost:    cfg.Security.BCryptCost,
			Now:           time.Now(),
		}, lg)
	},
}

var seedDepartments = []string{
	"Operations",
	"Customer Support",
	"Sales",
	"Finance",
	"Engineering",
}

type seedOptions struct {
	Clear         bool
	AdminPassword string
	BCryptCost    int
	Now           time.Time
}

// seedDatabase is idempotent: rows that already exist are left alone. The
// permission window opens on Now and runs for ninety days, letting every
// department rate Customer Support.
func seedDatabase(ctx context.Context, db *gorm.DB, opts seedOptions, lg *slog.Logger) error {
	if opts.AdminPassword == "" {
		return errors.New("admin password is required")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clear {
			for _, model := range []interface{}{
				&submissionDatamodel.SurveySubmission{},
				&permissionDatamodel.Permission{},
				&departmentDatamodel.Department{},
				&userDatamodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear data: %w", err)
				}
			}
			lg.Info("cleared existing data")
		}

		ids := make(map[string]int64, len(seedDepartments))
		for _, name := range seedDepartments {
			dept := departmentDatamodel.Department{Name: name}
			if err := tx.Where(departmentDatamodel.Department{Name: name}).FirstOrCreate(&dept).Error; err != nil {
				return fmt.Errorf("failed to seed department %s: %w", name, err)
			}
			ids[name] = dept.ID
		}
		lg.Info("seeded departments", "count", len(ids))

		var admin userDatamodel.User
		err := tx.Where("username = ?", "admin").First(&admin).Error
		switch {
		case err == nil:
			lg.Info("admin user already exists", "user_id", admin.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), opts.BCryptCost)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			admin = userDatamodel.User{
				Username:     "admin",
				Email:        "admin@example.com",
				Name:         "Administrator",
				PasswordHash: string(hash),
				Department:   "Operations",
				Role:         coreuser.RoleAdmin,
				IsActive:     true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to seed admin user: %w", err)
			}
			lg.Info("seeded admin user", "username", admin.Username)
		default:
			return fmt.Errorf("failed to look up admin user: %w", err)
		}

		var windows int64
		if err := tx.Model(&permissionDatamodel.Permission{}).Count(&windows).Error; err != nil {
			return fmt.Errorf("failed to count permissions: %w", err)
		}
		if windows > 0 {
			lg.Info("permission window already configured", "rows", windows)
			return nil
		}

		start := opts.Now.UTC().Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, 90)
		target := ids["Customer Support"]
		rows := make([]*permissionDatamodel.Permission, 0, len(seedDepartments))
		for _, name := range seedDepartments {
			rows = append(rows, &permissionDatamodel.Permission{
				FromDepartmentID: ids[name],
				ToDepartmentID:   target,
				CanSurveySelf:    name == "Customer Support",
				StartDate:        start,
				EndDate:          end,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to seed permissions: %w", err)
		}
		lg.Info("seeded permission window", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
		return nil
	})
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "admin123", "Password for the seeded admin user")
}
