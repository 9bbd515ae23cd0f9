package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FailsWithoutJWTSecret(t *testing.T) {
	path := writeConfig(t, "generator:\n  api_key: k\n")

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt.secret is required")
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt:\n    secret: short\ngenerator:\n  api_key: k\n")

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestLoad_FailsWithoutProviderKey(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt:\n    secret: "+testSecret+"\n")

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.api_key is required")
}

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"auth:",
		"  jwt:",
		"    secret: " + testSecret,
		"generator:",
		"  api_key: k",
	}, "\n"))
	t.Setenv("STUDYFORGE_PLANS_FREE_REQUESTS", "7")

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Plans.FreeRequests)
	assert.Equal(t, 30, cfg.Subscription.PeriodDays)
	assert.False(t, cfg.Subscription.ExpirySweep.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Same(t, cfg, Get())
}

func TestValidate_UnsupportedDriver(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.JWT.Secret = testSecret
	cfg.Generator.Provider = "gemini"
	cfg.Generator.APIKey = "k"
	cfg.Database.Driver = "postgres"
	cfg.Subscription.PeriodDays = 30

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `database.driver "postgres"`)
}
