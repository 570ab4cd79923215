package cmd

import (
	"fmt"

	"github.com/frahmantamala/survey-admin/internal/auth"
	authPostgres "github.com/frahmantamala/survey-admin/internal/auth/postgres"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/user"
	userPostgres "github.com/frahmantamala/survey-admin/internal/user/postgres"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var newUser user.CreateUserDTO

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user, typically the first admin",
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

		hasher := auth.NewService(authPostgres.NewRepository(db), cfg.Security.BCryptCost, lg)
		service := user.NewService(userPostgres.NewUserRepository(db), hasher, nil, lg)

		id, err := service.Create(cmd.Context(), 0, newUser)
		if err != nil {
			return err
		}
		fmt.Printf("created user %q with id %d\n", newUser.Username, id)
		return nil
	},
}

func init() {
	flags := createUserCmd.Flags()
	flags.StringVar(&newUser.Username, "username", "", "login name")
	flags.StringVar(&newUser.Password, "password", "", "password, at least 6 characters")
	flags.StringVar(&newUser.Email, "email", "", "email address")
	flags.StringVar(&newUser.Name, "name", "", "display name")
	flags.StringVar(&newUser.Department, "department", "", "department name")
	flags.StringVar(&newUser.Role, "role", coreuser.RoleAdmin, "Admin, Manager or Rep")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = createUserCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createUserCmd)
}
