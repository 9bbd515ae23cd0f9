// Package usage owns the per-account request counter and the atomic
// "reserve one unit of quota" operation.
package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

var ErrQuotaExceeded = errors.New("request quota exceeded")

// Outcome of a reservation.
type Outcome int

const (
	Granted Outcome = iota + 1
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Reservation is the ephemeral result of TryReserve. Reason is set only when
// the reservation was denied.
type Reservation struct {
	Outcome Outcome
	Reason  error
	Tier    plan.Tier
}

func (r Reservation) Granted() bool {
	return r.Outcome == Granted
}

// Metrics receives reservation outcomes. A nil Metrics is allowed.
type Metrics interface {
	ObserveReservation(tier plan.Tier, outcome string)
}

type Ledger struct {
	accounts account.Repository
	catalog  *plan.Catalog
	metrics  Metrics
	logger   logger.Interface
}

func NewLedger(accounts account.Repository, catalog *plan.Catalog, metrics Metrics, logger logger.Interface) *Ledger {
	return &Ledger{
		accounts: accounts,
		catalog:  catalog,
		metrics:  metrics,
		logger:   logger,
	}
}

// TryReserve claims one unit of quota. Premium accounts are granted without
// touching the counter. For free accounts the check and the increment are one
// conditional update; only when it changes no row is the account re-read to
// tell a missing account, a concurrent upgrade and an exhausted quota apart.
func (l *Ledger) TryReserve(ctx context.Context, accountID string) (Reservation, error) {
	acc, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return Reservation{}, err
	}

	for attempt := 0; attempt < maxTierRetries; attempt++ {
		res, next, err := l.reserve(ctx, acc)
		if err != nil {
			return Reservation{}, err
		}
		if next == nil {
			l.observe(res)
			return res, nil
		}
		acc = next
	}
	return Reservation{}, fmt.Errorf("account %s changed tier during reservation", accountID)
}

// maxTierRetries bounds how often a reservation is re-decided after the
// tier changed underneath it.
const maxTierRetries = 3

// reserve returns a reloaded account instead of a result when the tier moved
// between the read and the conditional update.
func (l *Ledger) reserve(ctx context.Context, acc *account.Account) (Reservation, *account.Account, error) {
	def, err := l.catalog.LimitsFor(acc.Tier())
	if err != nil {
		return Reservation{}, nil, err
	}
	if def.IsUnlimited() {
		return Reservation{Outcome: Granted, Tier: acc.Tier()}, nil, nil
	}

	ok, err := l.accounts.IncrementUsage(ctx, acc.SID(), acc.Tier(), def.RequestsAllowed)
	if err != nil {
		return Reservation{}, nil, fmt.Errorf("failed to reserve quota: %w", err)
	}
	if ok {
		return Reservation{Outcome: Granted, Tier: acc.Tier()}, nil, nil
	}

	current, err := l.accounts.GetByID(ctx, acc.SID())
	if err != nil {
		return Reservation{}, nil, err
	}
	if current.Tier() != acc.Tier() {
		return Reservation{}, current, nil
	}

	l.logger.Infow("quota reservation denied",
		"account_id", acc.SID(),
		"tier", acc.Tier(),
		"requests_used", current.RequestsUsed(),
		"ceiling", def.RequestsAllowed,
	)
	return Reservation{Outcome: Denied, Reason: ErrQuotaExceeded, Tier: acc.Tier()}, nil, nil
}

// Reset zeroes the counter. It is an administrative operation and is not
// reachable from the generation flow.
func (l *Ledger) Reset(ctx context.Context, accountID string) error {
	if err := l.accounts.ResetUsage(ctx, accountID); err != nil {
		return err
	}
	l.logger.Infow("usage counter reset", "account_id", accountID)
	return nil
}

func (l *Ledger) observe(res Reservation) {
	if l.metrics != nil {
		l.metrics.ObserveReservation(res.Tier, res.Outcome.String())
	}
}
