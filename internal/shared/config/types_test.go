package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: "data/studyforge.db"}
		assert.Equal(t, "data/studyforge.db", cfg.GetDSN())
	})

	t.Run("mysql reports matched rows", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "mysql",
			Host:     "db",
			Port:     3306,
			Username: "app",
			Password: "secret",
			Database: "studyforge",
		}
		dsn := cfg.GetDSN()
		assert.Contains(t, dsn, "app:secret@tcp(db:3306)/studyforge?")
		assert.Contains(t, dsn, "clientFoundRows=true")
		assert.Contains(t, dsn, "parseTime=True")
	})
}
