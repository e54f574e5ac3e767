// Package collect holds the expected-value collection model and the
// horizon sweep that picks how many packs to open before finishing a set
// with wildcards.
//
// The collection model treats every pack as an independent trial in which
// each still-missing card of a tier is obtained with probability
// rate/setSize. The missing pool therefore decays geometrically:
//
//	collected(t) = setSize - (setSize - owned) * ((setSize - rate) / setSize)^t
//
// This is an expectation approximation of drawing without replacement, not
// an exact hypergeometric result. See CompletionCurve for the exact chain.
package collect

import "math"

// ExpectedCollected returns the expected number of distinct cards of a tier
// owned after t packs. The result is owned at t=0 and approaches setSize
// from below as t grows.
func ExpectedCollected(t int, rate float64, setSize, owned int) float64 {
	if setSize <= 0 {
		return 0
	}
	if owned >= setSize {
		return float64(setSize)
	}
	if t <= 0 {
		return float64(owned)
	}
	n := float64(setSize)
	base := (n - rate) / n
	// rate >= setSize is rejected by ValidateSpec; clamp so direct callers stay bounded
	if base < 0 {
		base = 0
	}
	if base > 1 {
		base = 1
	}
	return n - (n-float64(owned))*math.Pow(base, float64(t))
}

// Missing is the expected shortfall of a tier after t packs.
func Missing(t int, rate float64, setSize, owned int) float64 {
	m := float64(setSize) - ExpectedCollected(t, rate, setSize, owned)
	if m < 0 {
		return 0
	}
	return m
}

// WildcardCost is the pack-equivalent cost of finishing a tier with
// wildcards after t packs.
func WildcardCost(t int, s TierSpec) float64 {
	if s.absent() {
		return 0
	}
	return Missing(t, s.ExpectedNewPerPack, s.SetSize, s.Owned) * s.PackEquivalentValue()
}

// TotalCost is t packs plus the wildcard cost of every tier's remaining gap.
func TotalCost(specs []TierSpec, t int) float64 {
	cost := float64(t)
	for _, s := range specs {
		cost += WildcardCost(t, s)
	}
	return cost
}
