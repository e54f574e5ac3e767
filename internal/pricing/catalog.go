package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Bundle models a real-money SKU that grants in-game currency.
type Bundle struct {
	ID          string `json:"id"`            // SKU id, e.g., "gems-1600"
	Name        string `json:"name"`          // display name, e.g., "1,600 Gems"
	Tokens      int    `json:"tokens"`        // base currency granted
	BonusTokens int    `json:"bonus_tokens"`  // permanent extra currency
	FirstTimeX2 bool   `json:"first_time_x2"` // if true, the first purchase doubles base Tokens (not BonusTokens)
	PriceCents  int    `json:"price_cents"`   // price in minor units
}

// Store is a regional bundle list with tax info.
type Store struct {
	TokenName string   `json:"token_name"` // e.g., "Gems"
	Currency  string   `json:"currency"`   // ISO code, e.g., "USD"
	TaxRate   float64  `json:"tax_rate"`   // applied on subtotal; 0 for tax-inclusive prices
	Bundles   []Bundle `json:"bundles"`
}

// FirstTimeState describes per-bundle first-purchase eligibility.
type FirstTimeState map[string]bool // bundle ID -> true if the x2 is still available

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases   []Purchase
	SubCents    int
	TaxCents    int
	TotalCents  int
	TotalTokens int
	Currency    string
}

// Purchase is one line item in the plan.
type Purchase struct {
	BundleID   string `json:"bundle_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	UnitPrice  int    `json:"unit_price_cents"` // cents
	UnitTokens int    `json:"unit_tokens"`      // currency per unit in this plan (x2/bonus applied)
	Subtotal   int    `json:"subtotal_cents"`   // cents
}

// Total renders TotalCents as a decimal amount in the store currency.
func (p Plan) Total() decimal.Decimal {
	return decimal.New(int64(p.TotalCents), -2)
}

// applyTax computes tax and total given a subtotal and a tax rate.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}
