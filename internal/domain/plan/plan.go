// Package plan holds the static catalog of subscription tiers and the
// quota rule every metering decision is made with.
package plan

import (
	"fmt"
	"slices"
)

// Tier names a plan.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Unlimited marks a ceiling that never denies.
const Unlimited = -1

// DefaultFreeRequests is the free ceiling used when nothing is configured.
const DefaultFreeRequests = 5

// Feature names.
const (
	FeatureChat               = "chat"
	FeatureQuiz               = "quiz"
	FeatureQuestionEvaluation = "question_evaluation"
	FeatureMindMap            = "mindmap"
	FeaturePrioritySupport    = "priority_support"
)

func (t Tier) String() string {
	return string(t)
}

// ParseTier accepts only registered tier names.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPremium:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// Definition is the immutable description of one tier.
type Definition struct {
	Tier            Tier     `json:"tier"`
	RequestsAllowed int      `json:"requests_allowed"`
	Features        []string `json:"features"`
}

// IsUnlimited reports whether the tier has no ceiling.
func (d Definition) IsUnlimited() bool {
	return d.RequestsAllowed == Unlimited
}

// Allows is the single quota predicate: an unlimited plan always allows,
// otherwise used must be strictly below the ceiling.
func (d Definition) Allows(used int) bool {
	return d.IsUnlimited() || used < d.RequestsAllowed
}

// Remaining returns how many requests are left, or Unlimited.
func (d Definition) Remaining(used int) int {
	if d.IsUnlimited() {
		return Unlimited
	}
	return max(d.RequestsAllowed-used, 0)
}

func (d Definition) HasFeature(name string) bool {
	return slices.Contains(d.Features, name)
}

func (d Definition) clone() Definition {
	d.Features = slices.Clone(d.Features)
	return d
}
