package collect

import (
	"errors"
	"math"
	"testing"
)

// defaultSpecs mirrors the default set: totals 81/100/65/22, owned
// 77/55/37/13, rarity skew 7.
func defaultSpecs() []TierSpec {
	const alpha = 7.0
	return []TierSpec{
		{Common, 81, 77, 14.0 / 3.0, 1.0 / 3.0},
		{Uncommon, 100, 55, 9.0 / 5.0, 11.0 / 30.0},
		{Rare, 65, 37, (1 - 1/alpha) * (1 - 1.0/30), (1.0 / 6) * (1 - 1/(5*alpha))},
		{Mythic, 22, 13, (1 / alpha) * (1 - 1.0/30), (1.0 / 30) * (1 + 1/alpha)},
	}
}

func TestExpectedCollectedStartsAtOwned(t *testing.T) {
	for _, s := range defaultSpecs() {
		got := ExpectedCollected(0, s.ExpectedNewPerPack, s.SetSize, s.Owned)
		if got != float64(s.Owned) {
			t.Errorf("%s: t=0 collected %v, want %d", s.Tier, got, s.Owned)
		}
	}
}

func TestExpectedCollectedBoundedAndMonotone(t *testing.T) {
	for _, s := range defaultSpecs() {
		prev := -1.0
		prevMissing := math.Inf(1)
		for step := 0; step <= 2000; step++ {
			c := ExpectedCollected(step, s.ExpectedNewPerPack, s.SetSize, s.Owned)
			if c < 0 || c > float64(s.SetSize) {
				t.Fatalf("%s t=%d: collected %v out of [0,%d]", s.Tier, step, c, s.SetSize)
			}
			if c < prev {
				t.Fatalf("%s t=%d: collected decreased %v -> %v", s.Tier, step, prev, c)
			}
			m := Missing(step, s.ExpectedNewPerPack, s.SetSize, s.Owned)
			if m > prevMissing {
				t.Fatalf("%s t=%d: missing increased %v -> %v", s.Tier, step, prevMissing, m)
			}
			prev, prevMissing = c, m
		}
	}
}

func TestExpectedCollectedConverges(t *testing.T) {
	for _, s := range defaultSpecs() {
		c := ExpectedCollected(10000, s.ExpectedNewPerPack, s.SetSize, s.Owned)
		if d := float64(s.SetSize) - c; d < 0 || d > 1e-6 {
			t.Errorf("%s: collected %v not within 1e-6 of %d", s.Tier, c, s.SetSize)
		}
	}
}

func TestExpectedCollectedCompleteTier(t *testing.T) {
	if got := ExpectedCollected(3, 2, 10, 10); got != 10 {
		t.Fatalf("complete tier should stay complete, got %v", got)
	}
	if got := Missing(3, 2, 10, 10); got != 0 {
		t.Fatalf("complete tier should miss nothing, got %v", got)
	}
}

func TestOptimizeDefaultSet(t *testing.T) {
	res, err := Optimize(defaultSpecs(), 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Horizon != 155 {
		t.Fatalf("horizon = %d, want 155", res.Horizon)
	}
	if math.Abs(res.Cost-275.0469786619565) > 1e-6 {
		t.Fatalf("cost = %v, want ~275.047", res.Cost)
	}
	if len(res.Curve) != 501 {
		t.Fatalf("curve has %d points, want 501", len(res.Curve))
	}
	if res.Horizon <= 0 || res.Horizon >= 500 {
		t.Fatalf("minimum should be interior, got %d", res.Horizon)
	}

	want := []float64{80.99959, 97.30541, 61.16688, 18.60870}
	for i, o := range res.Outcomes {
		if math.Abs(o.Expected-want[i]) > 1e-4 {
			t.Errorf("%s expected %v, want %v", o.Tier, o.Expected, want[i])
		}
		if math.Abs(o.Expected+o.Missing-float64(o.SetSize)) > 1e-9 {
			t.Errorf("%s expected+missing != set size", o.Tier)
		}
	}
}

func TestOptimizeCostFiniteNonNegative(t *testing.T) {
	for _, p := range Sweep(defaultSpecs(), 500) {
		if math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0) || p.Cost < 0 {
			t.Fatalf("t=%d: cost %v", p.T, p.Cost)
		}
		if p.Cost != TotalCost(defaultSpecs(), p.T) {
			t.Fatalf("t=%d: sweep cost %v disagrees with TotalCost", p.T, p.Cost)
		}
	}
}

func TestOptimizeHorizonTooSmall(t *testing.T) {
	_, err := Optimize(defaultSpecs(), 100)
	if !errors.Is(err, ErrHorizonTooSmall) {
		t.Fatalf("expected ErrHorizonTooSmall, got %v", err)
	}
	var he *HorizonError
	if !errors.As(err, &he) || he.HorizonMax != 100 {
		t.Fatalf("expected *HorizonError with bound 100, got %#v", err)
	}
}

func TestOptimizeIsPure(t *testing.T) {
	a, err := Optimize(defaultSpecs(), 500)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Optimize(defaultSpecs(), 500)
	if err != nil {
		t.Fatal(err)
	}
	if a.Horizon != b.Horizon || a.Cost != b.Cost {
		t.Fatalf("repeat run differs: (%d,%v) vs (%d,%v)", a.Horizon, a.Cost, b.Horizon, b.Cost)
	}
}

func TestOptimizeCompleteCollectionOpensNothing(t *testing.T) {
	specs := defaultSpecs()
	for i := range specs {
		specs[i].Owned = specs[i].SetSize
	}
	res, err := Optimize(specs, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Horizon != 0 || res.Cost != 0 {
		t.Fatalf("got horizon %d cost %v, want 0/0", res.Horizon, res.Cost)
	}
}

func TestOptimizeAbsentTier(t *testing.T) {
	specs := defaultSpecs()
	specs[3] = TierSpec{Tier: Mythic}
	res, err := Optimize(specs, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcomes[3].Expected != 0 || res.Outcomes[3].Missing != 0 {
		t.Fatalf("absent tier should contribute nothing: %+v", res.Outcomes[3])
	}
	full, _ := Optimize(defaultSpecs(), 500)
	if res.Cost >= full.Cost {
		t.Fatalf("dropping mythics should lower cost: %v vs %v", res.Cost, full.Cost)
	}
}

func TestArgminTiesPickFirst(t *testing.T) {
	curve := []CurvePoint{{T: 0, Cost: 5}, {T: 1, Cost: 3}, {T: 2, Cost: 3}, {T: 3, Cost: 4}}
	if got := argmin(curve); got != 1 {
		t.Fatalf("argmin = %d, want 1", got)
	}
}

func TestOptimizePlateauPicksSmallestHorizon(t *testing.T) {
	// two cards, one new per pack, wildcard worth two packs:
	// cost(t) = t + 4*(1/2)^t = 4, 3, 3, 3.5, ...
	specs := []TierSpec{{Tier: Common, SetSize: 2, ExpectedNewPerPack: 1, WildcardRate: 0.5}}
	if c1, c2 := TotalCost(specs, 1), TotalCost(specs, 2); c1 != c2 {
		t.Fatalf("expected a plateau, got %v and %v", c1, c2)
	}
	res, err := Optimize(specs, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Horizon != 1 || res.Cost != 3 {
		t.Fatalf("got horizon %d cost %v, want 1/3", res.Horizon, res.Cost)
	}
}

func TestOptimizeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s []TierSpec)
		want   error
	}{
		{"owned exceeds set", func(s []TierSpec) { s[0].Owned = 82 }, ErrInvalidInput},
		{"negative owned", func(s []TierSpec) { s[1].Owned = -1 }, ErrInvalidInput},
		{"negative set size", func(s []TierSpec) { s[2].SetSize = -5; s[2].Owned = 0 }, ErrInvalidInput},
		{"rate at set size", func(s []TierSpec) { s[0].ExpectedNewPerPack = 81 }, ErrDegenerateRate},
		{"zero rate", func(s []TierSpec) { s[3].ExpectedNewPerPack = 0 }, ErrDegenerateRate},
		{"zero wildcard rate", func(s []TierSpec) { s[3].WildcardRate = 0 }, ErrDegenerateRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := defaultSpecs()
			tt.mutate(specs)
			if _, err := Optimize(specs, 500); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Optimize(nil, 500); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no tiers: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Optimize(defaultSpecs(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero horizon: expected ErrInvalidInput, got %v", err)
	}
}
