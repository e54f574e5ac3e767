package collect

import (
	"fmt"
	"math"
)

func finitePositive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

// ValidateSpec checks one tier's counts and rates.
func ValidateSpec(s TierSpec) error {
	if s.SetSize < 0 {
		return fmt.Errorf("%w: %s set size %d is negative", ErrInvalidInput, s.Tier, s.SetSize)
	}
	if s.Owned < 0 {
		return fmt.Errorf("%w: %s owned %d is negative", ErrInvalidInput, s.Tier, s.Owned)
	}
	if s.Owned > s.SetSize {
		return fmt.Errorf("%w: %s owned %d exceeds set size %d", ErrInvalidInput, s.Tier, s.Owned, s.SetSize)
	}
	if s.absent() {
		return nil
	}
	if !finitePositive(s.ExpectedNewPerPack) || s.ExpectedNewPerPack >= float64(s.SetSize) {
		return fmt.Errorf("%w: %s expected new per pack %.4f must be in (0,%d)",
			ErrDegenerateRate, s.Tier, s.ExpectedNewPerPack, s.SetSize)
	}
	if !finitePositive(s.WildcardRate) {
		return fmt.Errorf("%w: %s wildcard rate %.4f must be > 0", ErrDegenerateRate, s.Tier, s.WildcardRate)
	}
	return nil
}

func validateSpecs(specs []TierSpec, horizonMax int) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidInput)
	}
	if horizonMax < 1 {
		return fmt.Errorf("%w: horizon max %d must be >= 1", ErrInvalidInput, horizonMax)
	}
	for _, s := range specs {
		if err := ValidateSpec(s); err != nil {
			return err
		}
	}
	return nil
}
