package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/user-management-api/cmd/usermgmt/ui"
	"github.com/redmonkez12/user-management-api/internal/auth"
	"github.com/redmonkez12/user-management-api/internal/config"
	"github.com/redmonkez12/user-management-api/internal/database"
	"github.com/redmonkez12/user-management-api/internal/logging"
	"github.com/redmonkez12/user-management-api/internal/user"
)

// Seeded administrator. Re-running seed leaves an existing account as is.
const (
	adminEmail     = "admin@example.com"
	adminPassword  = "testAdmin@2025"
	adminFirstName = "Admin"
	adminLastName  = "User"
)

var adminBirthDate = user.NewDate(1990, time.January, 1)

// app holds the dependencies the commands are built from. Tests replace the
// database-facing ones.
type app struct {
	loadConfig func() *config.Config
	openStore  func(ctx context.Context, cfg config.DatabaseConfig) (user.Store, func() error, error)
	migrate    func(ctx context.Context, cfg config.DatabaseConfig) error
	askUser    func(*ui.CreateUserAnswers) error
}

func defaultApp() *app {
	return &app{
		loadConfig: config.Read,
		openStore: func(ctx context.Context, cfg config.DatabaseConfig) (user.Store, func() error, error) {
			db, err := database.Open(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return user.NewRepository(db), db.Close, nil
		},
		migrate: func(ctx context.Context, cfg config.DatabaseConfig) error {
			db, err := database.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(ctx, db.DB)
		},
		askUser: ui.RunCreateUserForm,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "usermgmt",
		Short:         "Administer the user management database",
		Long:          "Apply migrations, seed the administrator account and create users directly in the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  a.runMigrate,
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default administrator if it does not exist",
		RunE:  a.runSeed,
	}

	createUserCmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user",
		Long:  "Create a user from flags. Missing fields are asked for interactively unless --no-input is set.",
		RunE:  a.runCreateUser,
	}

	// Flags for non-interactive mode (CI/scripting)
	createUserCmd.Flags().String("firstname", "", "First name")
	createUserCmd.Flags().String("lastname", "", "Last name")
	createUserCmd.Flags().String("email", "", "Email address")
	createUserCmd.Flags().String("password", "", "Password (at least 8 characters)")
	createUserCmd.Flags().String("birth-date", "", "Birth date (YYYY-MM-DD)")
	createUserCmd.Flags().Bool("no-input", false, "Fail instead of prompting for missing fields")

	rootCmd.AddCommand(migrateCmd, seedCmd, createUserCmd)
	return rootCmd
}

func (a *app) runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := a.loadConfig()

	if err := a.migrate(cmd.Context(), cfg.Database); err != nil {
		ui.PrintError(cmd.ErrOrStderr(), err)
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Migrations applied")
	return nil
}

func (a *app) runSeed(cmd *cobra.Command, _ []string) error {
	return a.withUserService(cmd, func(svc *user.Service) error {
		created, err := svc.Seed(cmd.Context(), user.CreateInput{
			FirstName: adminFirstName,
			LastName:  adminLastName,
			Email:     adminEmail,
			Password:  adminPassword,
			BirthDate: &adminBirthDate,
		})
		if err != nil {
			return err
		}

		if created {
			ui.PrintSuccess(cmd.OutOrStdout(), "Seeded "+adminEmail)
		} else {
			ui.PrintNote(cmd.OutOrStdout(), adminEmail+" already exists, nothing to do")
		}
		return nil
	})
}

func (a *app) runCreateUser(cmd *cobra.Command, _ []string) error {
	answers := &ui.CreateUserAnswers{}
	answers.FirstName, _ = cmd.Flags().GetString("firstname")
	answers.LastName, _ = cmd.Flags().GetString("lastname")
	answers.Email, _ = cmd.Flags().GetString("email")
	answers.Password, _ = cmd.Flags().GetString("password")
	answers.BirthDate, _ = cmd.Flags().GetString("birth-date")
	noInput, _ := cmd.Flags().GetBool("no-input")

	if !answers.Complete() {
		if noInput {
			err := fmt.Errorf("firstname, lastname, email, password and birth-date are required with --no-input")
			ui.PrintError(cmd.ErrOrStderr(), err)
			return err
		}
		ui.PrintTitle(cmd.OutOrStdout(), "New user")
		if err := a.askUser(answers); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
	}

	in, err := answers.Input()
	if err != nil {
		ui.PrintError(cmd.ErrOrStderr(), err)
		return err
	}

	return a.withUserService(cmd, func(svc *user.Service) error {
		created, err := svc.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		ui.PrintSuccess(cmd.OutOrStdout(), "User created")
		ui.PrintUser(cmd.OutOrStdout(), created)
		return nil
	})
}

// withUserService opens the store, runs fn and prints any error it returns.
func (a *app) withUserService(cmd *cobra.Command, fn func(*user.Service) error) error {
	cfg := a.loadConfig()

	hasher, err := auth.NewPasswordHasherFromConfig(cfg.Auth)
	if err != nil {
		ui.PrintError(cmd.ErrOrStderr(), err)
		return err
	}

	store, closeStore, err := a.openStore(cmd.Context(), cfg.Database)
	if err != nil {
		ui.PrintError(cmd.ErrOrStderr(), err)
		return err
	}
	defer closeStore()

	logger := logging.NewLoggerWithWriter(cmd.ErrOrStderr(), cfg.Server.IsDevelopment())

	if err := fn(user.NewService(store, hasher, logger)); err != nil {
		ui.PrintError(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}
