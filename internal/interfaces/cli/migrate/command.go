package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/infrastructure/migration"
	"github.com/studyforge/studyforge/internal/interfaces/cli/bootstrap"
	"github.com/studyforge/studyforge/internal/shared/constants"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply the embedded schema migrations or report which have been applied.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE:  runUp,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  runStatus,
		},
	)

	return cmd
}

func initEnv() (*bootstrap.Env, *migration.Manager, error) {
	e, err := bootstrap.Load(env, configPath, false)
	if err != nil {
		return nil, nil, err
	}
	if err := e.OpenDatabase(); err != nil {
		return nil, nil, err
	}

	m, err := migration.NewManager(e.Config.Database.Driver, e.Log)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	return e, m, nil
}

func runUp(cmd *cobra.Command, _ []string) error {
	e, m, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	e.Log.Infow("running up migrations", "environment", env, "driver", e.Config.Database.Driver)

	if err := m.Up(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	e.Log.Infow("migrations completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	e, m, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := m.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	statuses, err := m.Status(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", e.Config.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n\n", version)
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(out, "  %05d  %-8s %s\n", s.Version, state, s.Source)
	}
	return nil
}
