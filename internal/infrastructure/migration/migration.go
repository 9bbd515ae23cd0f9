// Package migration applies the embedded goose scripts for the configured
// SQL dialect.
package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/shared/logger"
)

//go:embed scripts/sqlite/*.sql scripts/mysql/*.sql
var scripts embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

type Manager struct {
	driver string
	logger logger.Interface
}

// NewManager returns a manager for driver "sqlite" or "mysql".
func NewManager(driver string, log logger.Interface) (*Manager, error) {
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	return &Manager{driver: driver, logger: log.With("component", "migration.goose")}, nil
}

func (m *Manager) dir() string {
	return "scripts/" + m.driver
}

func (m *Manager) dialect() string {
	if m.driver == "sqlite" {
		return "sqlite3"
	}
	return "mysql"
}

func (m *Manager) with(db *gorm.DB, fn func(sqlDB *sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scripts)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(m.dialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(sqlDB)
}

// Up applies every pending migration.
func (m *Manager) Up(db *gorm.DB) error {
	return m.with(db, func(sqlDB *sql.DB) error {
		from, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}

		if err := goose.Up(sqlDB, m.dir()); err != nil {
			m.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		to, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		m.logger.Infow("migration completed",
			"from_version", from,
			"to_version", to)
		return nil
	})
}

// Version returns the current schema version.
func (m *Manager) Version(db *gorm.DB) (int64, error) {
	var version int64
	err := m.with(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		version = v
		return err
	})
	return version, err
}

// MigrationStatus describes one embedded script.
type MigrationStatus struct {
	Version int64
	Source  string
	Applied bool
}

// Status lists the embedded scripts and whether each has been applied.
func (m *Manager) Status(db *gorm.DB) ([]MigrationStatus, error) {
	var out []MigrationStatus
	err := m.with(db, func(sqlDB *sql.DB) error {
		current, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		migrations, err := goose.CollectMigrations(m.dir(), 0, goose.MaxVersion)
		if err != nil {
			return fmt.Errorf("failed to collect migrations: %w", err)
		}
		for _, mig := range migrations {
			out = append(out, MigrationStatus{
				Version: mig.Version,
				Source:  mig.Source,
				Applied: mig.Version <= current,
			})
		}
		return nil
	})
	return out, err
}
