package plan

import "fmt"

// Catalog maps tiers to their definitions. It is built once at start-up and
// never mutated, so it needs no locking.
type Catalog struct {
	plans map[Tier]Definition
}

// NewCatalog builds the standard two-tier catalog. freeRequests sets the free
// ceiling and must not be negative.
func NewCatalog(freeRequests int) (*Catalog, error) {
	if freeRequests < 0 {
		return nil, fmt.Errorf("free request ceiling must not be negative, got %d", freeRequests)
	}

	base := []string{FeatureChat, FeatureQuiz, FeatureQuestionEvaluation, FeatureMindMap}

	return &Catalog{
		plans: map[Tier]Definition{
			TierFree: {
				Tier:            TierFree,
				RequestsAllowed: freeRequests,
				Features:        base,
			},
			TierPremium: {
				Tier:            TierPremium,
				RequestsAllowed: Unlimited,
				Features:        append(append([]string{}, base...), FeaturePrioritySupport),
			},
		},
	}, nil
}

// DefaultCatalog returns the catalog with the stock free ceiling.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(DefaultFreeRequests)
	return c
}

// LimitsFor returns the definition of tier or ErrUnknownTier.
func (c *Catalog) LimitsFor(tier Tier) (Definition, error) {
	def, ok := c.plans[tier]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	return def.clone(), nil
}

// AllPlans returns a copy callers may modify freely.
func (c *Catalog) AllPlans() map[Tier]Definition {
	out := make(map[Tier]Definition, len(c.plans))
	for tier, def := range c.plans {
		out[tier] = def.clone()
	}
	return out
}
