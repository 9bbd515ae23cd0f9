// Package permission wraps a casbin enforcer whose subjects are account
// roles. Policies live in the casbin_rule table through the GORM adapter.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/shared/logger"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && r.obj == p.obj && r.act == p.act
`

// Resources and actions checked by the HTTP layer.
const (
	ResourceAccount      = "account"
	ResourceSubscription = "subscription"

	ActionResetUsage = "reset_usage"
	ActionUpgrade    = "upgrade"
	ActionDowngrade  = "downgrade"
)

// DefaultPolicies are seeded on start-up; adding an existing rule is a no-op.
var DefaultPolicies = [][]string{
	{"admin", ResourceAccount, ActionResetUsage},
	{"admin", ResourceAccount, ActionUpgrade},
	{"user", ResourceSubscription, ActionUpgrade},
	{"user", ResourceSubscription, ActionDowngrade},
	{"admin", ResourceSubscription, ActionUpgrade},
	{"admin", ResourceSubscription, ActionDowngrade},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// Seed adds the given policies and persists them.
func (e *Enforcer) Seed(policies [][]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range policies {
		if _, err := e.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			e.logger.Errorw("failed to add permission policy",
				"error", err,
				"role", p[0],
				"resource", p[1],
				"action", p[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}

	e.logger.Infow("permission policies seeded", "count", len(policies))
	return nil
}

func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) RemovePolicy(role, resource, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}
	e.logger.Info("policy reloaded")
	return nil
}
