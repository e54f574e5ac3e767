// resolve.go
package catalog

import (
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/token"
)

// Overrides carries per-request replacements for file values.
type Overrides struct {
	Alpha      *float64
	HorizonMax *int
	AutoWiden  *bool
}

// Resolver turns a set code plus overrides into planner params.
type Resolver interface {
	// Returns merged RawConfig and normalized Params
	Resolve(code string, o Overrides) (RawConfig, Params, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges default → set → overrides, validates, and normalizes.
func (l *Loader) Resolve(code string, o Overrides) (RawConfig, Params, error) {
	raw, err := l.LoadMerged(code)
	if err != nil {
		return RawConfig{}, Params{}, err
	}
	raw = applyOverrides(raw, o)
	if err := ValidateRaw(raw); err != nil {
		return raw, Params{}, err
	}
	return raw, Normalize(raw), nil
}

func applyOverrides(raw RawConfig, o Overrides) RawConfig {
	raw.Alpha = pick(raw.Alpha, o.Alpha)
	raw.Horizon.Max = pick(raw.Horizon.Max, o.HorizonMax)
	raw.Horizon.AutoWiden = pick(raw.Horizon.AutoWiden, o.AutoWiden)
	// an explicit horizon lifts the widening cap with it
	if o.HorizonMax != nil && raw.Horizon.Limit != nil && *raw.Horizon.Limit < *o.HorizonMax {
		raw.Horizon.Limit = o.HorizonMax
	}
	return raw
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Normalize fills defaults on a validated RawConfig.
func Normalize(raw RawConfig) Params {
	p := Params{
		Name:         raw.Name,
		Code:         raw.Code,
		Alpha:        deref(raw.Alpha, 0),
		HorizonMax:   deref(raw.Horizon.Max, DefaultHorizonMax),
		AutoWiden:    deref(raw.Horizon.AutoWiden, false),
		HorizonLimit: deref(raw.Horizon.Limit, DefaultHorizonLimit),
		Notes:        raw.Notes,
		Version:      raw.Version,
	}
	if p.HorizonLimit < p.HorizonMax {
		p.HorizonLimit = p.HorizonMax
	}
	p.Totals[collect.Common] = deref(raw.Totals.Common, 0)
	p.Totals[collect.Uncommon] = deref(raw.Totals.Uncommon, 0)
	p.Totals[collect.Rare] = deref(raw.Totals.Rare, 0)
	p.Totals[collect.Mythic] = deref(raw.Totals.Mythic, 0)

	if raw.Token != nil {
		p.Token = &token.Token{
			Name:     raw.Token.Name,
			PerPack:  deref(raw.Token.PerPack, 0),
			BulkSize: deref(raw.Token.BulkSize, 0),
			PerBulk:  deref(raw.Token.PerBulk, 0),
		}
	}
	if raw.Store != nil {
		s := &pricing.Store{
			Currency: raw.Store.Currency,
			TaxRate:  deref(raw.Store.TaxRate, 0),
		}
		if p.Token != nil {
			s.TokenName = p.Token.Name
		}
		for _, b := range raw.Store.Bundles {
			s.Bundles = append(s.Bundles, pricing.Bundle{
				ID:          b.ID,
				Name:        b.Name,
				Tokens:      b.Tokens,
				BonusTokens: b.BonusTokens,
				FirstTimeX2: b.FirstTimeX2,
				PriceCents:  b.PriceCents,
			})
		}
		p.Store = s
	}
	return p
}
