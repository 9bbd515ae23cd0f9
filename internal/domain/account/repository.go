package account

import (
	"context"
	"time"

	"github.com/studyforge/studyforge/internal/domain/plan"
)

// Repository is the storage collaborator for accounts. Every mutating method
// is a single statement against the account row.
type Repository interface {
	// Create inserts a new account; ErrEmailTaken on a duplicate address.
	Create(ctx context.Context, account *Account) error

	// GetByID loads an account by public ID; ErrAccountNotFound if absent.
	GetByID(ctx context.Context, sid string) (*Account, error)

	// GetByEmail loads an account by normalized email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// IncrementUsage adds one to the counter only while the account is on
	// tier and the counter is below ceiling. It reports whether a row changed.
	IncrementUsage(ctx context.Context, sid string, tier plan.Tier, ceiling int) (bool, error)

	// ResetUsage sets the counter to zero unconditionally.
	ResetUsage(ctx context.Context, sid string) error

	// ApplySubscription overwrites tier, status, end and billing reference.
	ApplySubscription(ctx context.Context, sid string, sub Subscription) error

	// ExpireSubscription downgrades the account only if it is still premium
	// with an end before now. It reports whether this call did the downgrade.
	ExpireSubscription(ctx context.Context, sid string, now time.Time) (bool, error)

	// SetRole changes the account's role.
	SetRole(ctx context.Context, sid string, role Role) error

	// ListLapsed returns up to limit IDs of premium accounts whose end is
	// before now.
	ListLapsed(ctx context.Context, now time.Time, limit int) ([]string, error)
}
