package collect

import (
	"fmt"
	"math"
)

// DefaultCompletionHorizon scales the completion sweep with the tier size.
func DefaultCompletionHorizon(setSize int) int {
	t := int(math.Ceil(6 * float64(setSize)))
	if t < 50 {
		t = 50
	}
	if t > 1500 {
		t = 1500
	}
	return t
}

type transition struct {
	minX  int
	probs []float64
}

func logFactorials(n int) []float64 {
	lf := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		lf[i] = lf[i-1] + math.Log(float64(i))
	}
	return lf
}

func logChoose(lf []float64, n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	return lf[n] - lf[k] - lf[n-k]
}

// transitions[s] is the hypergeometric law of new cards in one pack when s
// of setSize are already collected.
func transitions(perPack, setSize int) []transition {
	lf := logFactorials(setSize)
	logDen := logChoose(lf, setSize, perPack)
	out := make([]transition, setSize+1)
	for s := 0; s <= setSize; s++ {
		missing := setSize - s
		minX := max(0, perPack-s)
		maxX := min(perPack, missing)
		probs := make([]float64, maxX-minX+1)
		var sum float64
		for x := minX; x <= maxX; x++ {
			p := math.Exp(logChoose(lf, missing, x) + logChoose(lf, s, perPack-x) - logDen)
			probs[x-minX] = p
			sum += p
		}
		if sum > 0 {
			for i := range probs {
				probs[i] /= sum
			}
		}
		out[s] = transition{minX: minX, probs: probs}
	}
	return out
}

// CompletionCurve returns F_t for t in [0, tMax]: the exact probability
// that every card of a tier is collected after t packs, when each pack
// holds perPack distinct cards of the tier drawn uniformly without
// replacement. Collection starts empty.
func CompletionCurve(perPack, setSize, tMax int) ([]float64, error) {
	if setSize < 1 {
		return nil, fmt.Errorf("%w: set size %d must be >= 1", ErrInvalidInput, setSize)
	}
	if perPack < 1 || perPack > setSize {
		return nil, fmt.Errorf("%w: cards per pack %d must be in [1,%d]", ErrInvalidInput, perPack, setSize)
	}
	if tMax < 0 {
		return nil, fmt.Errorf("%w: t max %d is negative", ErrInvalidInput, tMax)
	}

	tr := transitions(perPack, setSize)
	p := make([]float64, setSize+1)
	next := make([]float64, setSize+1)
	p[0] = 1

	f := make([]float64, tMax+1)
	f[0] = p[setSize]
	for t := 1; t <= tMax; t++ {
		clear(next)
		for s, ps := range p {
			if ps == 0 {
				continue
			}
			row := tr[s]
			for i, q := range row.probs {
				next[s+row.minX+i] += ps * q
			}
		}
		p, next = next, p
		f[t] = math.Max(0, math.Min(1, p[setSize]))
	}
	return f, nil
}

// CompletionPMF turns a completion curve into the probability that the
// tier completes on exactly pack t.
func CompletionPMF(cdf []float64) []float64 {
	pmf := make([]float64, len(cdf))
	if len(cdf) == 0 {
		return pmf
	}
	pmf[0] = math.Max(0, math.Min(1, cdf[0]))
	for t := 1; t < len(cdf); t++ {
		pmf[t] = math.Max(0, cdf[t]-cdf[t-1])
	}
	return pmf
}
