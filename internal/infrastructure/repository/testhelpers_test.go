package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/infrastructure/database"
	"github.com/studyforge/studyforge/internal/infrastructure/migration"
	"github.com/studyforge/studyforge/internal/shared/config"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// newTestDB opens a migrated SQLite file in a temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	m, err := migration.NewManager("sqlite", logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, m.Up(db))
	return db
}
