// Package subscription drives an account's tier through upgrade, downgrade
// and lazy expiry.
package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// DefaultPeriod is the length of a premium window.
const DefaultPeriod = 30 * 24 * time.Hour

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

// Status is the read model returned by every lifecycle operation.
type Status struct {
	AccountID          string
	Tier               plan.Tier
	RequestsUsed       int
	Ceiling            int
	Remaining          int
	CanRequest         bool
	Features           []string
	SubscriptionStatus account.Status
	SubscriptionEnd    *time.Time
}

type Lifecycle struct {
	accounts account.Repository
	catalog  *plan.Catalog
	recorder account.TransitionRecorder
	period   time.Duration
	now      Clock
	logger   logger.Interface
}

type Option func(*Lifecycle)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(l *Lifecycle) {
		l.now = c
	}
}

// WithPeriod overrides DefaultPeriod.
func WithPeriod(d time.Duration) Option {
	return func(l *Lifecycle) {
		if d > 0 {
			l.period = d
		}
	}
}

// WithRecorder sets where transitions are reported.
func WithRecorder(r account.TransitionRecorder) Option {
	return func(l *Lifecycle) {
		l.recorder = r
	}
}

func NewLifecycle(accounts account.Repository, catalog *plan.Catalog, logger logger.Interface, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		accounts: accounts,
		catalog:  catalog,
		period:   DefaultPeriod,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Upgrade starts a fresh premium window from now, whatever the prior state.
func (l *Lifecycle) Upgrade(ctx context.Context, accountID string, billingRef *string) (*Status, error) {
	before, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	sub, err := account.PremiumSubscription(now, l.period, billingRef)
	if err != nil {
		return nil, err
	}
	if err := l.accounts.ApplySubscription(ctx, accountID, sub); err != nil {
		return nil, fmt.Errorf("failed to upgrade account: %w", err)
	}

	l.record(ctx, account.NewTransition(before, sub, account.TriggerUpgrade, now))
	l.logger.Infow("account upgraded",
		"account_id", accountID,
		"previous_tier", before.Tier(),
		"subscription_end", sub.EndAt,
	)

	return l.reload(ctx, accountID, "")
}

// Downgrade returns the account to free. Repeating it changes nothing.
func (l *Lifecycle) Downgrade(ctx context.Context, accountID string) (*Status, error) {
	before, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sub := account.FreeSubscription()
	if !before.Subscription().Equal(sub) {
		if err := l.accounts.ApplySubscription(ctx, accountID, sub); err != nil {
			return nil, fmt.Errorf("failed to downgrade account: %w", err)
		}
		l.record(ctx, account.NewTransition(before, sub, account.TriggerDowngrade, l.now()))
		l.logger.Infow("account downgraded", "account_id", accountID, "previous_tier", before.Tier())
	}

	return l.reload(ctx, accountID, "")
}

// CheckStatus normalizes a lapsed premium window to free. Among concurrent
// callers only the one whose guarded update hits the row reports
// StatusExpired; the rest see the already normalized state.
func (l *Lifecycle) CheckStatus(ctx context.Context, accountID string) (*Status, error) {
	acc, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	if !acc.IsLapsed(now) {
		return l.statusOf(acc, "")
	}

	expired, err := l.expire(ctx, acc, now)
	if err != nil {
		return nil, err
	}
	if expired {
		return l.reload(ctx, accountID, account.StatusExpired)
	}
	return l.reload(ctx, accountID, "")
}

// ExpireLapsed runs the guarded expiry for every lapsed premium account,
// up to batch at a time. It backs the optional sweep and returns how many
// accounts this call downgraded.
func (l *Lifecycle) ExpireLapsed(ctx context.Context, batch int) (int, error) {
	now := l.now()
	ids, err := l.accounts.ListLapsed(ctx, now, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}

	count := 0
	for _, accountID := range ids {
		acc, err := l.accounts.GetByID(ctx, accountID)
		if err != nil {
			l.logger.Warnw("failed to load lapsed account", "account_id", accountID, "error", err)
			continue
		}
		expired, err := l.expire(ctx, acc, now)
		if err != nil {
			l.logger.Errorw("failed to expire subscription", "account_id", accountID, "error", err)
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}

func (l *Lifecycle) expire(ctx context.Context, acc *account.Account, now time.Time) (bool, error) {
	expired, err := l.accounts.ExpireSubscription(ctx, acc.SID(), now)
	if err != nil {
		return false, fmt.Errorf("failed to expire subscription: %w", err)
	}
	if expired {
		l.record(ctx, account.NewTransition(acc, account.FreeSubscription(), account.TriggerExpiry, now))
		l.logger.Infow("premium subscription expired",
			"account_id", acc.SID(),
			"subscription_end", acc.Subscription().EndAt,
		)
	}
	return expired, nil
}

func (l *Lifecycle) reload(ctx context.Context, accountID string, override account.Status) (*Status, error) {
	acc, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return l.statusOf(acc, override)
}

func (l *Lifecycle) statusOf(acc *account.Account, override account.Status) (*Status, error) {
	def, err := l.catalog.LimitsFor(acc.Tier())
	if err != nil {
		return nil, err
	}
	sub := acc.Subscription()
	st := &Status{
		AccountID:          acc.SID(),
		Tier:               acc.Tier(),
		RequestsUsed:       acc.RequestsUsed(),
		Ceiling:            def.RequestsAllowed,
		Remaining:          def.Remaining(acc.RequestsUsed()),
		CanRequest:         def.Allows(acc.RequestsUsed()),
		Features:           def.Features,
		SubscriptionStatus: sub.Status,
		SubscriptionEnd:    sub.EndAt,
	}
	if override != "" {
		st.SubscriptionStatus = override
	}
	return st, nil
}

func (l *Lifecycle) record(ctx context.Context, t account.Transition) {
	if l.recorder != nil {
		l.recorder.Record(ctx, t)
	}
}
