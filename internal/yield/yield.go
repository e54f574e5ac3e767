// Package yield derives per-pack card and wildcard rates for each rarity
// tier from the set's rarity skew.
package yield

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/wildcard-planner/internal/collect"
)

// ErrInvalidRarityParameter reports a rarity skew that is not a positive number.
var ErrInvalidRarityParameter = errors.New("invalid rarity parameter alpha; must be > 0")

// ErrDegenerateRate is shared with the optimizer so callers match one sentinel.
var ErrDegenerateRate = collect.ErrDegenerateRate

// Fixed pack design: slot ratios that do not depend on alpha.
const (
	commonPerPack   = 14.0 / 3.0
	uncommonPerPack = 9.0 / 5.0
	rareSlotShare   = 1.0 - 1.0/30.0 // rare slot not replaced by a wildcard

	commonWildcards   = 1.0 / 3.0
	uncommonWildcards = 11.0 / 30.0
	rareWildcards     = 1.0 / 6.0
	mythicWildcards   = 1.0 / 30.0
)

// Rates is what one pack yields for a tier, on average.
type Rates struct {
	ExpectedNewPerPack float64
	WildcardRate       float64
}

// PackEquivalentValue is how many packs one wildcard of the tier is worth.
func (r Rates) PackEquivalentValue() float64 { return 1 / r.WildcardRate }

// Spec binds the rates to a tier's counts.
func (r Rates) Spec(tier collect.Tier, setSize, owned int) collect.TierSpec {
	return collect.TierSpec{
		Tier:               tier,
		SetSize:            setSize,
		Owned:              owned,
		ExpectedNewPerPack: r.ExpectedNewPerPack,
		WildcardRate:       r.WildcardRate,
	}
}

// DeriveRates computes the rates of all four tiers. alpha is the rare to
// mythic skew: one rare slot in alpha upgrades to a mythic.
func DeriveRates(alpha float64) ([collect.NumTiers]Rates, error) {
	var out [collect.NumTiers]Rates
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha <= 0 {
		return out, fmt.Errorf("%w (got %v)", ErrInvalidRarityParameter, alpha)
	}

	mythicShare := 1 / alpha
	out[collect.Common] = Rates{commonPerPack, commonWildcards}
	out[collect.Uncommon] = Rates{uncommonPerPack, uncommonWildcards}
	out[collect.Rare] = Rates{
		ExpectedNewPerPack: (1 - mythicShare) * rareSlotShare,
		WildcardRate:       rareWildcards * (1 - mythicShare/5),
	}
	out[collect.Mythic] = Rates{
		ExpectedNewPerPack: mythicShare * rareSlotShare,
		WildcardRate:       mythicWildcards * (1 + mythicShare),
	}

	for _, tier := range collect.Tiers {
		r := out[tier]
		if r.ExpectedNewPerPack <= 0 || r.WildcardRate <= 0 {
			return out, fmt.Errorf("%w: alpha %v gives %s rates (%.4f new, %.4f wildcards) per pack",
				ErrDegenerateRate, alpha, tier, r.ExpectedNewPerPack, r.WildcardRate)
		}
	}
	return out, nil
}

// Specs builds optimizer input from derived rates and per-tier counts.
func Specs(rates [collect.NumTiers]Rates, totals, owned [collect.NumTiers]int) []collect.TierSpec {
	specs := make([]collect.TierSpec, 0, collect.NumTiers)
	for _, tier := range collect.Tiers {
		specs = append(specs, rates[tier].Spec(tier, totals[tier], owned[tier]))
	}
	return specs
}
