package account

import (
	"context"
	"time"

	"github.com/studyforge/studyforge/internal/domain/plan"
)

// Trigger names what caused a lifecycle transition.
type Trigger string

const (
	TriggerUpgrade   Trigger = "upgrade"
	TriggerDowngrade Trigger = "downgrade"
	TriggerExpiry    Trigger = "expiry"
)

// Transition records one subscription state change for auditing.
type Transition struct {
	AccountID  string
	Email      string
	FromTier   plan.Tier
	FromStatus Status
	ToTier     plan.Tier
	ToStatus   Status
	Trigger    Trigger
	At         time.Time
}

// Changed reports whether anything observable moved.
func (t Transition) Changed() bool {
	return t.FromTier != t.ToTier || t.FromStatus != t.ToStatus || t.Trigger == TriggerUpgrade
}

// NewTransition builds a transition from the account snapshot taken before
// the change and the state written.
func NewTransition(before *Account, to Subscription, trigger Trigger, at time.Time) Transition {
	return Transition{
		AccountID:  before.SID(),
		Email:      before.Email(),
		FromTier:   before.Tier(),
		FromStatus: before.subscription.Status,
		ToTier:     to.Tier,
		ToStatus:   to.Status,
		Trigger:    trigger,
		At:         at.UTC(),
	}
}

// TransitionRecorder receives every transition after it has been stored.
// Implementations must not block the caller for long.
type TransitionRecorder interface {
	Record(ctx context.Context, t Transition)
}
