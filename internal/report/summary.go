// Package report renders plans for people: a text summary and a cost
// curve export for plotting.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/planner"
)

// RoundHalfEven rounds to the nearest integer, ties to even.
func RoundHalfEven(x float64) int64 {
	return decimal.NewFromFloat(x).RoundBank(0).IntPart()
}

// Fixed2 formats x to at most two decimals, dropping trailing zeros.
func Fixed2(x float64) string {
	return decimal.NewFromFloat(x).Round(2).String()
}

// ExpectedCounts returns the per-tier expected counts at the chosen horizon
// rounded for display.
func ExpectedCounts(res collect.Result) []int64 {
	out := make([]int64, len(res.Outcomes))
	for i, o := range res.Outcomes {
		out[i] = RoundHalfEven(o.Expected)
	}
	return out
}

// Summary renders the recommendation as plain text.
func Summary(o planner.Outcome) string {
	var present []collect.Outcome
	for _, oc := range o.Result.Outcomes {
		if oc.SetSize > 0 {
			present = append(present, oc)
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	if o.Params.Name != "" {
		fmt.Fprintf(&b, "%s (%s)\n\n", o.Params.Name, o.Params.Code)
	}

	b.WriteString("For this set, wildcards have the following equivalent pack values:\n")
	for _, oc := range present {
		fmt.Fprintf(&b, "%s wildcards are worth approximately %s packs each.\n",
			oc.Tier, Fixed2(oc.PackEquivalentValue))
	}

	b.WriteString("\nYou started with:\n")
	for _, oc := range present {
		fmt.Fprintf(&b, "%d / %d %s\n", oc.Owned, oc.SetSize, oc.Tier.Plural())
	}

	fmt.Fprintf(&b, "\nOn average, the minimum overall cost will be incurred by opening %d more packs.\n", o.Result.Horizon)
	b.WriteString("Doing so is expected to result in:\n")
	var remaining []string
	for i, oc := range present {
		got := RoundHalfEven(oc.Expected)
		sep := ","
		switch {
		case i == len(present)-1:
			sep = ""
		case i == len(present)-2:
			sep = ", and"
		}
		fmt.Fprintf(&b, "%d / %d %s%s\n", got, oc.SetSize, oc.Tier.Plural(), sep)
		remaining = append(remaining, fmt.Sprintf("%d %s", max(0, int64(oc.SetSize)-got), oc.Tier))
	}
	b.WriteString("being opened in packs.  Wildcards should be used to obtain the remaining cards.\n")
	fmt.Fprintf(&b, "Expected wildcards needed: %s.\n", strings.Join(remaining, ", "))
	fmt.Fprintf(&b, "Minimum expected cost: %s effective packs.\n", Fixed2(o.Result.Cost))

	if pp := o.Purchase; pp != nil {
		fmt.Fprintf(&b, "\nBuying %d packs takes %d %s", pp.Packs, pp.Tokens, currencyName(o))
		if len(pp.Plan.Purchases) > 0 {
			var items []string
			for _, p := range pp.Plan.Purchases {
				items = append(items, fmt.Sprintf("%d x %s", p.Qty, p.Name))
			}
			fmt.Fprintf(&b, ": %s for %s %s", strings.Join(items, ", "), pp.Plan.Total().StringFixed(2), pp.Plan.Currency)
		}
		b.WriteString(".\n")
	}
	return b.String()
}

func currencyName(o planner.Outcome) string {
	if o.Params.Token != nil && o.Params.Token.Name != "" {
		return o.Params.Token.Name
	}
	return "tokens"
}
