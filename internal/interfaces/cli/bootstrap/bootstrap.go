// Package bootstrap loads configuration, logging and the database for the
// CLI commands.
package bootstrap

import (
	"fmt"

	"github.com/studyforge/studyforge/internal/infrastructure/config"
	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// Env is the loaded runtime shared by every command.
type Env struct {
	Config *config.Config
	Log    logger.Interface
}

// Load reads configuration and initializes the global logger. debug turns on
// source locations for every log level.
func Load(env, configPath string, debug bool) (*Env, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Env{
		Config: cfg,
		Log:    logger.NewLogger(),
	}, nil
}

// OpenDatabase initializes the shared connection. Callers close it with
// database.Close.
func (e *Env) OpenDatabase() error {
	if err := database.Init(&e.Config.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}
