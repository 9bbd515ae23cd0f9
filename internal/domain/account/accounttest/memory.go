// Package accounttest provides an in-memory account.Repository for tests.
// Every method runs under one mutex, which gives the same atomicity the SQL
// repository gets from a single conditional UPDATE.
package accounttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
)

type Repository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]account.AccountData

	// BeforeIncrement, when set, runs inside IncrementUsage before the
	// condition is evaluated, with the lock released. Tests use it to
	// interleave a concurrent change.
	BeforeIncrement func(sid string)
}

var _ account.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{rows: make(map[string]account.AccountData)}
}

func (r *Repository) Create(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.Email == a.Email() {
			return account.ErrEmailTaken
		}
	}
	r.nextID++
	if err := a.SetID(r.nextID); err != nil {
		return err
	}
	sub := a.Subscription()
	r.rows[a.SID()] = account.AccountData{
		ID:                 a.ID(),
		SID:                a.SID(),
		Email:              a.Email(),
		Name:               a.Name(),
		PasswordHash:       a.PasswordHash(),
		Role:               a.Role(),
		Tier:               sub.Tier,
		RequestsUsed:       a.RequestsUsed(),
		SubscriptionStatus: sub.Status,
		SubscriptionEndAt:  sub.EndAt,
		BillingRef:         sub.BillingRef,
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
	}
	return nil
}

// Seed inserts a row as-is, for states NewAccount cannot produce.
func (r *Repository) Seed(d account.AccountData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if d.ID == 0 {
		d.ID = r.nextID
	}
	r.rows[d.SID] = d
}

// Row returns the stored data for assertions.
func (r *Repository) Row(sid string) (account.AccountData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	return d, ok
}

func (r *Repository) GetByID(_ context.Context, sid string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return account.ReconstructAccount(d)
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.Email == email {
			return account.ReconstructAccount(d)
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *Repository) IncrementUsage(_ context.Context, sid string, tier plan.Tier, ceiling int) (bool, error) {
	if r.BeforeIncrement != nil {
		r.BeforeIncrement(sid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok || d.Tier != tier || d.RequestsUsed >= ceiling {
		return false, nil
	}
	d.RequestsUsed++
	d.UpdatedAt = time.Now().UTC()
	r.rows[sid] = d
	return true, nil
}

func (r *Repository) ResetUsage(_ context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok {
		return account.ErrAccountNotFound
	}
	d.RequestsUsed = 0
	r.rows[sid] = d
	return nil
}

func (r *Repository) ApplySubscription(_ context.Context, sid string, sub account.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok {
		return account.ErrAccountNotFound
	}
	d.Tier = sub.Tier
	d.SubscriptionStatus = sub.Status
	d.SubscriptionEndAt = sub.EndAt
	d.BillingRef = sub.BillingRef
	r.rows[sid] = d
	return nil
}

func (r *Repository) ExpireSubscription(_ context.Context, sid string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok || d.Tier != plan.TierPremium || d.SubscriptionEndAt == nil || !d.SubscriptionEndAt.Before(now) {
		return false, nil
	}
	d.Tier = plan.TierFree
	d.SubscriptionStatus = account.StatusInactive
	d.SubscriptionEndAt = nil
	d.BillingRef = nil
	r.rows[sid] = d
	return true, nil
}

func (r *Repository) SetRole(_ context.Context, sid string, role account.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[sid]
	if !ok {
		return account.ErrAccountNotFound
	}
	d.Role = role
	r.rows[sid] = d
	return nil
}

func (r *Repository) ListLapsed(_ context.Context, now time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for sid, d := range r.rows {
		if d.Tier == plan.TierPremium && d.SubscriptionEndAt != nil && d.SubscriptionEndAt.Before(now) {
			out = append(out, sid)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
