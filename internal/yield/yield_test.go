package yield

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/wildcard-planner/internal/collect"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestDeriveRatesDefaultSkew(t *testing.T) {
	rates, err := DeriveRates(7.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		tier     collect.Tier
		perPack  float64
		wildcard float64
		value    float64
	}{
		{collect.Common, 14.0 / 3.0, 1.0 / 3.0, 3.0},
		{collect.Uncommon, 1.8, 11.0 / 30.0, 30.0 / 11.0},
		{collect.Rare, (6.0 / 7.0) * (29.0 / 30.0), (1.0 / 6.0) * (34.0 / 35.0), 6.176470588},
		{collect.Mythic, (1.0 / 7.0) * (29.0 / 30.0), (1.0 / 30.0) * (8.0 / 7.0), 26.25},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			r := rates[tt.tier]
			if !near(r.ExpectedNewPerPack, tt.perPack, 1e-12) {
				t.Errorf("per pack = %v, want %v", r.ExpectedNewPerPack, tt.perPack)
			}
			if !near(r.WildcardRate, tt.wildcard, 1e-12) {
				t.Errorf("wildcard rate = %v, want %v", r.WildcardRate, tt.wildcard)
			}
			if !near(r.PackEquivalentValue(), tt.value, 1e-6) {
				t.Errorf("pack value = %v, want %v", r.PackEquivalentValue(), tt.value)
			}
		})
	}
}

func TestDeriveRatesRejectsNonPositiveAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := DeriveRates(alpha); !errors.Is(err, ErrInvalidRarityParameter) {
			t.Errorf("alpha=%v: expected ErrInvalidRarityParameter, got %v", alpha, err)
		}
	}
}

func TestDeriveRatesDegenerateSkew(t *testing.T) {
	// alpha=1 sends every rare slot to mythic, leaving no rares per pack.
	if _, err := DeriveRates(1); !errors.Is(err, ErrDegenerateRate) {
		t.Fatalf("alpha=1: expected ErrDegenerateRate, got %v", err)
	}
	// alpha=0.2 zeroes the rare wildcard rate.
	if _, err := DeriveRates(0.2); !errors.Is(err, collect.ErrDegenerateRate) {
		t.Fatalf("alpha=0.2: expected ErrDegenerateRate, got %v", err)
	}
}

func TestSpecsOrder(t *testing.T) {
	rates, err := DeriveRates(8)
	if err != nil {
		t.Fatal(err)
	}
	specs := Specs(rates, [4]int{80, 100, 60, 20}, [4]int{1, 2, 3, 4})
	if len(specs) != collect.NumTiers {
		t.Fatalf("got %d specs", len(specs))
	}
	for i, s := range specs {
		if s.Tier != collect.Tiers[i] {
			t.Errorf("spec %d has tier %s", i, s.Tier)
		}
		if s.Owned != i+1 {
			t.Errorf("spec %d owned = %d", i, s.Owned)
		}
		if s.WildcardRate != rates[i].WildcardRate {
			t.Errorf("spec %d wildcard rate not carried over", i)
		}
	}
}
