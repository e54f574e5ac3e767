// types.go
package catalog

import (
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/token"
)

// RawConfig is a set file as loaded from YAML. Pointer fields stay nil when
// a file leaves them unset so the merge can tell "unset" from zero.
type RawConfig struct {
	Version string        `yaml:"version"`
	Name    string        `yaml:"name,omitempty"`
	Code    string        `yaml:"code,omitempty"`
	Alpha   *float64      `yaml:"alpha,omitempty"`
	Totals  TotalsConfig  `yaml:"totals"`
	Horizon HorizonConfig `yaml:"horizon"`
	Token   *TokenConfig  `yaml:"token,omitempty"`
	Store   *StoreConfig  `yaml:"store,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

// TotalsConfig is the number of distinct cards per tier.
type TotalsConfig struct {
	Common   *int `yaml:"common,omitempty"`
	Uncommon *int `yaml:"uncommon,omitempty"`
	Rare     *int `yaml:"rare,omitempty"`
	Mythic   *int `yaml:"mythic,omitempty"`
}

type HorizonConfig struct {
	Max       *int  `yaml:"max,omitempty"`
	AutoWiden *bool `yaml:"auto_widen,omitempty"`
	Limit     *int  `yaml:"limit,omitempty"` // cap for auto widening
}

type TokenConfig struct {
	Name     string `yaml:"name"`
	PerPack  *int   `yaml:"per_pack"`
	BulkSize *int   `yaml:"bulk_size,omitempty"`
	PerBulk  *int   `yaml:"per_bulk,omitempty"`
}

type StoreConfig struct {
	Currency string         `yaml:"currency"`
	TaxRate  *float64       `yaml:"tax_rate,omitempty"`
	Bundles  []BundleConfig `yaml:"bundles"`
}

type BundleConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Tokens      int    `yaml:"tokens"`
	BonusTokens int    `yaml:"bonus_tokens,omitempty"`
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty"`
	PriceCents  int    `yaml:"price_cents"`
}

// Defaults applied when no file sets a value.
const (
	DefaultHorizonMax   = 500
	DefaultHorizonLimit = 8000
)

// Params is the normalized set description used by the planner.
type Params struct {
	Name         string
	Code         string
	Alpha        float64
	Totals       [collect.NumTiers]int
	HorizonMax   int
	AutoWiden    bool
	HorizonLimit int
	Token        *token.Token   // nil when the set has no pack price
	Store        *pricing.Store // nil when the set has no bundle store
	Notes        string
	Version      string // effective config version for tracing
}
