package pricing

import (
	"context"
	"sort"

	"github.com/packkart/PackKart/models"
)

// GiftCatalog reads the gift tier reference data. Implementations must fetch
// fresh on every call.
type GiftCatalog interface {
	ActiveGiftTiers(ctx context.Context) ([]models.GiftTier, error)
}

// QualifyingTier is a tier whose spending threshold is met by the current
// post-discount amount.
type QualifyingTier = models.GiftTier

// NearbyTier is a tier not yet met, annotated with how much more spending
// would unlock it.
type NearbyTier struct {
	models.GiftTier
	AmountNeeded float64 `json:"amount_needed"`
}

// TierSet is the result of a resolution round.
type TierSet struct {
	Qualifying []QualifyingTier
	Nearby     []NearbyTier
}

// Resolver computes gift tier eligibility from a post-discount order amount.
type Resolver struct {
	catalog GiftCatalog
}

// NewResolver returns a Resolver reading tiers from catalog.
func NewResolver(catalog GiftCatalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve splits active tiers into qualifying (threshold met, best reward
// first) and nearby (threshold unmet, closest first). The full sets are
// returned; truncation for display is the caller's business. Threshold ties
// break by ascending tier id.
func (r *Resolver) Resolve(ctx context.Context, orderAmount float64) (TierSet, error) {
	tiers, err := r.catalog.ActiveGiftTiers(ctx)
	if err != nil {
		return TierSet{}, err
	}

	var set TierSet
	for _, tier := range tiers {
		if !tier.IsActive {
			continue
		}
		if tier.SpendingThreshold <= orderAmount {
			set.Qualifying = append(set.Qualifying, tier)
		} else {
			set.Nearby = append(set.Nearby, NearbyTier{
				GiftTier:     tier,
				AmountNeeded: Round2(tier.SpendingThreshold - orderAmount),
			})
		}
	}

	sort.Slice(set.Qualifying, func(i, j int) bool {
		a, b := set.Qualifying[i], set.Qualifying[j]
		if a.SpendingThreshold != b.SpendingThreshold {
			return a.SpendingThreshold > b.SpendingThreshold
		}
		return a.ID < b.ID
	})
	sort.Slice(set.Nearby, func(i, j int) bool {
		a, b := set.Nearby[i], set.Nearby[j]
		if a.AmountNeeded != b.AmountNeeded {
			return a.AmountNeeded < b.AmountNeeded
		}
		return a.ID < b.ID
	})

	return set, nil
}
