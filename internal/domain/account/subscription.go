package account

import (
	"fmt"
	"time"

	"github.com/studyforge/studyforge/internal/domain/plan"
)

// Status is the subscription status. StatusExpired is never stored: it only
// labels the single check that moved a lapsed premium account back to free.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// Subscription is the stored tier state of an account.
type Subscription struct {
	Tier       plan.Tier
	Status     Status
	EndAt      *time.Time
	BillingRef *string
}

// FreeSubscription is the state of a new or downgraded account.
func FreeSubscription() Subscription {
	return Subscription{
		Tier:   plan.TierFree,
		Status: StatusInactive,
	}
}

// PremiumSubscription starts a premium window of length period at now.
func PremiumSubscription(now time.Time, period time.Duration, billingRef *string) (Subscription, error) {
	if period <= 0 {
		return Subscription{}, fmt.Errorf("subscription period must be positive")
	}
	end := now.UTC().Add(period)
	var ref *string
	if billingRef != nil && *billingRef != "" {
		r := *billingRef
		ref = &r
	}
	return Subscription{
		Tier:       plan.TierPremium,
		Status:     StatusActive,
		EndAt:      &end,
		BillingRef: ref,
	}, nil
}

// IsLapsed reports whether s is premium with an end strictly before now.
func (s Subscription) IsLapsed(now time.Time) bool {
	return s.Tier == plan.TierPremium && s.EndAt != nil && now.After(*s.EndAt)
}

// Equal compares two states field by field.
func (s Subscription) Equal(o Subscription) bool {
	if s.Tier != o.Tier || s.Status != o.Status {
		return false
	}
	if (s.EndAt == nil) != (o.EndAt == nil) || (s.EndAt != nil && !s.EndAt.Equal(*o.EndAt)) {
		return false
	}
	if (s.BillingRef == nil) != (o.BillingRef == nil) || (s.BillingRef != nil && *s.BillingRef != *o.BillingRef) {
		return false
	}
	return true
}

func (s Subscription) clone() Subscription {
	if s.EndAt != nil {
		end := *s.EndAt
		s.EndAt = &end
	}
	if s.BillingRef != nil {
		ref := *s.BillingRef
		s.BillingRef = &ref
	}
	return s
}
