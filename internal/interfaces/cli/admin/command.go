package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/interfaces/cli/bootstrap"
	httpapi "github.com/studyforge/studyforge/internal/interfaces/http"
	"github.com/studyforge/studyforge/internal/shared/constants"
	"github.com/studyforge/studyforge/internal/shared/id"
)

const commandTimeout = 30 * time.Second

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator commands for accounts",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "reset-usage <account-id>",
			Short: "Reset an account's request counter to zero",
			Args:  cobra.ExactArgs(1),
			RunE:  runResetUsage,
		},
		&cobra.Command{
			Use:   "set-role <email> <user|admin>",
			Short: "Change an account's role",
			Args:  cobra.ExactArgs(2),
			RunE:  runSetRole,
		},
	)

	return cmd
}

func initServices() (*httpapi.Services, error) {
	e, err := bootstrap.Load(env, configPath, false)
	if err != nil {
		return nil, err
	}
	if err := e.OpenDatabase(); err != nil {
		return nil, err
	}

	services, err := httpapi.NewServices(database.Get(), e.Config, e.Log, nil)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return services, nil
}

func runResetUsage(cmd *cobra.Command, args []string) error {
	accountID := args[0]
	if err := id.Validate(id.PrefixAccount, accountID); err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	services, err := initServices()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	status, err := services.Accounts.ResetUsage(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to reset usage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "usage reset for %s (tier %s, used %d)\n",
		status.AccountID, status.Tier, status.RequestsUsed)
	return nil
}

func runSetRole(cmd *cobra.Command, args []string) error {
	role, err := account.ParseRole(args[1])
	if err != nil {
		return err
	}

	services, err := initServices()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	dto, err := services.Accounts.SetRole(ctx, args[0], role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", dto.Email, dto.ID, dto.Role)
	return nil
}
