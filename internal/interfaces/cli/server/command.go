package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/infrastructure/migration"
	"github.com/studyforge/studyforge/internal/interfaces/cli/bootstrap"
	httpapi "github.com/studyforge/studyforge/internal/interfaces/http"
	"github.com/studyforge/studyforge/internal/shared/constants"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	configPath  string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the StudyForge HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations before serving")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	e, err := bootstrap.Load(env, configPath, ginMode == gin.DebugMode)
	if err != nil {
		return err
	}
	cfg := e.Config
	cfg.Server.Mode = ginMode

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := e.OpenDatabase(); err != nil {
		return err
	}
	defer database.Close()

	if err := handleMigrations(e); err != nil {
		return err
	}

	container, err := httpapi.NewContainer(database.Get(), cfg, e.Log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer container.Shutdown()
	container.SetupRoutes()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container.StartBackgroundJobs(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Generator.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// handleMigrations applies pending migrations when asked and otherwise only
// reports the schema version.
func handleMigrations(e *bootstrap.Env) error {
	m, err := migration.NewManager(e.Config.Database.Driver, e.Log)
	if err != nil {
		return err
	}

	if autoMigrate {
		if env == constants.EnvProduction {
			logger.Warn("auto-migration is enabled in production environment")
		}
		return m.Up(database.Get())
	}

	version, err := m.Version(database.Get())
	if err != nil {
		logger.Warn("failed to check migration status", "error", err)
		return nil
	}
	logger.Info("current migration version", "version", version)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
