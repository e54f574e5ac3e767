package collect

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports owned or set-size values outside their domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateRate reports a per-pack rate the decay model cannot use:
	// non-positive, or at least as large as the tier's set size.
	ErrDegenerateRate = errors.New("degenerate rate")

	// ErrHorizonTooSmall reports that the cheapest horizon sits on the
	// upper bound of the sweep, so the true minimum may lie beyond it.
	ErrHorizonTooSmall = errors.New("horizon too small")
)

// HorizonError carries the bound that was too small.
type HorizonError struct {
	HorizonMax int
	Cost       float64 // total cost at the bound
}

func (e *HorizonError) Error() string {
	return fmt.Sprintf("%v: minimum cost reached at the bound t=%d (cost %.2f); rerun with a larger horizon",
		ErrHorizonTooSmall, e.HorizonMax, e.Cost)
}

func (e *HorizonError) Unwrap() error { return ErrHorizonTooSmall }
