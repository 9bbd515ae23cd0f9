package permission

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/shared/logger"
)

func newEnforcer(t *testing.T, path string) *Enforcer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	return e
}

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e := newEnforcer(t, filepath.Join(t.TempDir(), "casbin.db"))
	require.NoError(t, e.Seed(DefaultPolicies))

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{"admin", ResourceAccount, ActionResetUsage, true},
		{"admin", ResourceAccount, ActionUpgrade, true},
		{"user", ResourceAccount, ActionResetUsage, false},
		{"user", ResourceSubscription, ActionUpgrade, true},
		{"", ResourceSubscription, ActionUpgrade, false},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s %s", tt.role, tt.resource, tt.action)
	}
}

func TestEnforcer_SeedIsIdempotentAndPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casbin.db")
	first := newEnforcer(t, path)
	require.NoError(t, first.Seed(DefaultPolicies))
	require.NoError(t, first.Seed(DefaultPolicies))

	second := newEnforcer(t, path)
	allowed, err := second.Enforce("admin", ResourceAccount, ActionResetUsage)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, second.RemovePolicy("admin", ResourceAccount, ActionResetUsage))
	allowed, err = second.Enforce("admin", ResourceAccount, ActionResetUsage)
	require.NoError(t, err)
	assert.False(t, allowed)
}
