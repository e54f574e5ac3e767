package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/wildcard-planner/internal/yield"
)

// ErrInvalidConfig wraps every ValidateRaw failure.
var ErrInvalidConfig = errors.New("config validation failed")

// ValidateRaw checks semantic constraints of a merged RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string
	badAlpha := false

	// alpha
	if cfg.Alpha == nil {
		errs = append(errs, "alpha is required")
	} else if a := *cfg.Alpha; math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		errs = append(errs, "alpha must be > 0")
		badAlpha = true
	}

	// totals
	positive := 0
	for _, tt := range []struct {
		name string
		v    *int
	}{
		{"common", cfg.Totals.Common},
		{"uncommon", cfg.Totals.Uncommon},
		{"rare", cfg.Totals.Rare},
		{"mythic", cfg.Totals.Mythic},
	} {
		if tt.v == nil {
			continue
		}
		if *tt.v < 0 {
			errs = append(errs, fmt.Sprintf("totals.%s must be >= 0", tt.name))
		}
		if *tt.v > 0 {
			positive++
		}
	}
	if positive == 0 {
		errs = append(errs, "totals must list at least one tier with cards")
	}

	// horizon
	if cfg.Horizon.Max != nil && *cfg.Horizon.Max < 1 {
		errs = append(errs, "horizon.max must be >= 1")
	}
	if cfg.Horizon.Limit != nil {
		hmax := DefaultHorizonMax
		if cfg.Horizon.Max != nil {
			hmax = *cfg.Horizon.Max
		}
		if *cfg.Horizon.Limit < hmax {
			errs = append(errs, "horizon.limit must be >= horizon.max")
		}
	}

	// token (optional)
	if cfg.Token != nil {
		if cfg.Token.PerPack == nil || *cfg.Token.PerPack <= 0 {
			errs = append(errs, "token.per_pack must be > 0")
		}
		if cfg.Token.BulkSize != nil && *cfg.Token.BulkSize < 0 {
			errs = append(errs, "token.bulk_size must be >= 0")
		}
		if cfg.Token.PerBulk != nil && *cfg.Token.PerBulk < 0 {
			errs = append(errs, "token.per_bulk must be >= 0")
		}
	}

	// store (optional)
	if cfg.Store != nil {
		if cfg.Store.TaxRate != nil && (*cfg.Store.TaxRate < 0 || *cfg.Store.TaxRate >= 1) {
			errs = append(errs, "store.tax_rate must be in [0,1)")
		}
		for i, b := range cfg.Store.Bundles {
			if b.ID == "" {
				errs = append(errs, fmt.Sprintf("store.bundles[%d].id is required", i))
			}
			if b.Tokens <= 0 {
				errs = append(errs, fmt.Sprintf("store.bundles[%d].tokens must be > 0", i))
			}
			if b.BonusTokens < 0 {
				errs = append(errs, fmt.Sprintf("store.bundles[%d].bonus_tokens must be >= 0", i))
			}
			if b.PriceCents <= 0 {
				errs = append(errs, fmt.Sprintf("store.bundles[%d].price_cents must be > 0", i))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if badAlpha {
		return fmt.Errorf("%w: %s (%w)", ErrInvalidConfig, strings.Join(errs, "; "), yield.ErrInvalidRarityParameter)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
}
