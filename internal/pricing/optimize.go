package pricing

import (
	"math"
	"sort"

	"github.com/xtding233/wildcard-planner/internal/token"
)

// variant is a bundle as it can actually be bought: the first-purchase x2
// and the regular purchase are separate variants of one SKU.
type variant struct {
	id, name   string
	tok, price int
}

func variants(s Store, first FirstTimeState) []variant {
	var out []variant
	for _, b := range s.Bundles {
		if b.Tokens+b.BonusTokens <= 0 || b.PriceCents <= 0 {
			continue
		}
		if b.FirstTimeX2 && first[b.ID] {
			out = append(out, variant{b.ID + "#x2", b.Name + " (x2)", b.Tokens*2 + b.BonusTokens, b.PriceCents})
		}
		out = append(out, variant{b.ID, b.Name, b.Tokens + b.BonusTokens, b.PriceCents})
	}
	return out
}

// buildPlan groups chosen variant indices into sorted line items.
func buildPlan(s Store, effs []variant, chosen []int) Plan {
	counts := map[int]int{}
	for _, i := range chosen {
		counts[i]++
	}
	plan := Plan{Currency: s.Currency}
	for i, qty := range counts {
		e := effs[i]
		sub := e.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			BundleID:   e.id,
			Name:       e.name,
			Qty:        qty,
			UnitPrice:  e.price,
			UnitTokens: e.tok,
			Subtotal:   sub,
		})
		plan.SubCents += sub
		plan.TotalTokens += e.tok * qty
	}
	sort.Slice(plan.Purchases, func(a, b int) bool {
		return plan.Purchases[a].BundleID < plan.Purchases[b].BundleID
	})
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, s.TaxRate)
	return plan
}

// MinCostAtLeastTokens finds the cheapest bundle combination granting at
// least targetTokens. First-purchase x2 bundles appear as their own variant.
// Quantities are unbounded.
func MinCostAtLeastTokens(s Store, targetTokens int, first FirstTimeState) Plan {
	effs := variants(s, first)
	if targetTokens <= 0 || len(effs) == 0 {
		return Plan{Currency: s.Currency}
	}

	// DP over tokens up to target + largest bundle so a slight overshoot is allowed.
	maxTok := 0
	for _, e := range effs {
		maxTok = max(maxTok, e.tok)
	}
	limit := targetTokens + maxTok

	const inf = math.MaxInt
	dp := make([]int, limit+1)   // min cost to reach exactly t tokens
	pick := make([]int, limit+1) // chosen variant index
	prev := make([]int, limit+1) // previous t
	for t := range dp {
		dp[t], pick[t], prev[t] = inf, -1, -1
	}
	dp[0] = 0

	for t := 0; t <= limit; t++ {
		if dp[t] == inf {
			continue
		}
		for i, e := range effs {
			nt := min(t+e.tok, limit)
			if cost := dp[t] + e.price; cost < dp[nt] {
				dp[nt], pick[nt], prev[nt] = cost, i, t
			}
		}
	}

	bestT := targetTokens
	for t := targetTokens; t <= limit; t++ {
		if dp[t] < dp[bestT] {
			bestT = t
		}
	}
	if dp[bestT] == inf {
		return Plan{Currency: s.Currency}
	}

	var chosen []int
	for t := bestT; t > 0 && pick[t] != -1; t = prev[t] {
		chosen = append(chosen, pick[t])
	}
	return buildPlan(s, effs, chosen)
}

// MaxTokensUnderBudget computes the most currency purchasable with
// budgetCents, tax included. Unbounded knapsack on price.
func MaxTokensUnderBudget(s Store, budgetCents int, first FirstTimeState) Plan {
	effs := variants(s, first)
	if budgetCents <= 0 || len(effs) == 0 {
		return Plan{Currency: s.Currency}
	}

	// tax applies to the subtotal, so shrink the budget to its pre-tax share
	effBudget := budgetCents
	if s.TaxRate > 0 {
		effBudget = int(math.Floor(float64(budgetCents) / (1 + s.TaxRate)))
	}

	dp := make([]int, effBudget+1) // dp[c] = max tokens spending exactly c
	pick := make([]int, effBudget+1)
	for c := range pick {
		pick[c] = -1
	}
	for c := 0; c <= effBudget; c++ {
		if c > 0 && pick[c] == -1 {
			continue
		}
		for i, e := range effs {
			nc := c + e.price
			if nc > effBudget {
				continue
			}
			if v := dp[c] + e.tok; v > dp[nc] {
				dp[nc], pick[nc] = v, i
			}
		}
	}
	bestC := 0
	for c := 0; c <= effBudget; c++ {
		if dp[c] > dp[bestC] {
			bestC = c
		}
	}

	var chosen []int
	for c := bestC; c > 0 && pick[c] != -1; c -= effs[pick[c]].price {
		chosen = append(chosen, pick[c])
	}
	return buildPlan(s, effs, chosen)
}

// PackPlan is the cheapest way to pay for a number of packs with real money.
type PackPlan struct {
	Packs  int
	Tokens int // currency the packs cost
	Plan   Plan
}

// PlanForPacks prices n packs: currency needed from tok, then the
// cheapest bundles covering it.
func PlanForPacks(s Store, tok token.Token, packs int, first FirstTimeState) PackPlan {
	need := tok.TokensForPacks(packs)
	return PackPlan{Packs: packs, Tokens: need, Plan: MinCostAtLeastTokens(s, need, first)}
}

// PacksUnderBudget reports how many packs a real-money budget buys.
func PacksUnderBudget(s Store, tok token.Token, budgetCents int, first FirstTimeState) PackPlan {
	plan := MaxTokensUnderBudget(s, budgetCents, first)
	return PackPlan{Packs: tok.PacksForTokens(plan.TotalTokens), Tokens: plan.TotalTokens, Plan: plan}
}
