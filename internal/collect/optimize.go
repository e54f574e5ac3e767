package collect

// CurvePoint is the cost and expected collection state after T packs.
type CurvePoint struct {
	T         int
	Cost      float64
	Collected []float64 // expected distinct owned, indexed like the input specs
}

// Outcome summarizes one tier at the chosen horizon.
type Outcome struct {
	Tier                Tier
	SetSize             int
	Owned               int
	Expected            float64 // expected distinct owned after opening the packs
	Missing             float64 // expected cards left for wildcards
	PackEquivalentValue float64
}

// Result is the cheapest horizon together with the full cost curve.
type Result struct {
	Horizon    int     // packs to open
	Cost       float64 // expected total cost in pack-equivalents at Horizon
	HorizonMax int     // upper bound of the sweep
	Outcomes   []Outcome
	Curve      []CurvePoint
}

// Sweep evaluates the cost curve for t in [0, horizonMax].
func Sweep(specs []TierSpec, horizonMax int) []CurvePoint {
	curve := make([]CurvePoint, 0, horizonMax+1)
	for t := 0; t <= horizonMax; t++ {
		collected := make([]float64, len(specs))
		cost := float64(t)
		for i, s := range specs {
			if s.absent() {
				continue
			}
			collected[i] = ExpectedCollected(t, s.ExpectedNewPerPack, s.SetSize, s.Owned)
			cost += WildcardCost(t, s)
		}
		curve = append(curve, CurvePoint{T: t, Cost: cost, Collected: collected})
	}
	return curve
}

// argmin returns the index of the cheapest point; ties keep the first.
func argmin(curve []CurvePoint) int {
	best := 0
	for i := 1; i < len(curve); i++ {
		if curve[i].Cost < curve[best].Cost {
			best = i
		}
	}
	return best
}

// Optimize sweeps t over [0, horizonMax] and returns the horizon with the
// lowest expected total cost. If the minimum lands on horizonMax it returns
// a *HorizonError instead of a result.
func Optimize(specs []TierSpec, horizonMax int) (Result, error) {
	if err := validateSpecs(specs, horizonMax); err != nil {
		return Result{}, err
	}

	curve := Sweep(specs, horizonMax)
	best := argmin(curve)
	if best == horizonMax {
		return Result{}, &HorizonError{HorizonMax: horizonMax, Cost: curve[best].Cost}
	}

	p := curve[best]
	outcomes := make([]Outcome, len(specs))
	for i, s := range specs {
		o := Outcome{Tier: s.Tier, SetSize: s.SetSize, Owned: s.Owned}
		if !s.absent() {
			o.Expected = p.Collected[i]
			o.Missing = Missing(p.T, s.ExpectedNewPerPack, s.SetSize, s.Owned)
			o.PackEquivalentValue = s.PackEquivalentValue()
		}
		outcomes[i] = o
	}
	return Result{
		Horizon:    p.T,
		Cost:       p.Cost,
		HorizonMax: horizonMax,
		Outcomes:   outcomes,
		Curve:      curve,
	}, nil
}
