// Package planner ties the set catalog, the yield model and the optimizer
// together for one collector request.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xtding233/wildcard-planner/internal/catalog"
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/metrics"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/yield"
)

// Request asks for a plan for one set.
type Request struct {
	Set        string
	Owned      [collect.NumTiers]int
	Alpha      *float64
	HorizonMax *int
	AutoWiden  *bool
	FirstTime  pricing.FirstTimeState
}

// Outcome is everything a reporter needs about one plan.
type Outcome struct {
	Params   catalog.Params
	Owned    [collect.NumTiers]int
	Rates    [collect.NumTiers]yield.Rates
	Result   collect.Result
	Widened  int               // horizon doublings before the minimum was interior
	Purchase *pricing.PackPlan // nil when the set has no pack price or store
}

// Planner runs requests against a set catalog.
type Planner struct {
	resolver catalog.Resolver
	log      *slog.Logger
}

// New creates a planner. A nil logger means slog.Default().
func New(r catalog.Resolver, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.Default()
	}
	return &Planner{resolver: r, log: log}
}

// Plan resolves the set named by req and evaluates it.
func (p *Planner) Plan(ctx context.Context, req Request) (Outcome, error) {
	_, params, err := p.resolver.Resolve(req.Set, catalog.Overrides{
		Alpha:      req.Alpha,
		HorizonMax: req.HorizonMax,
		AutoWiden:  req.AutoWiden,
	})
	if err != nil {
		result := "config_error"
		if errors.Is(err, yield.ErrInvalidRarityParameter) {
			result = resultLabel(err)
		}
		metrics.OptimizationsTotal.WithLabelValues("unresolved", result).Inc()
		return Outcome{}, err
	}
	return p.Evaluate(ctx, params, req.Owned, req.FirstTime)
}

// ValidateOwned checks owned counts against the set's totals.
func ValidateOwned(totals, owned [collect.NumTiers]int) error {
	for _, tier := range collect.Tiers {
		if owned[tier] < 0 {
			return fmt.Errorf("%w: owned %s must be an integer (0 or higher), got %d",
				collect.ErrInvalidInput, tier.Plural(), owned[tier])
		}
		if owned[tier] > totals[tier] {
			return fmt.Errorf("%w: owned %s (%d) must not exceed the %d in the set",
				collect.ErrInvalidInput, tier.Plural(), owned[tier], totals[tier])
		}
	}
	return nil
}

// Evaluate derives rates for params and runs the optimizer. With
// params.AutoWiden a boundary minimum doubles the horizon, up to
// params.HorizonLimit, and tries again.
func (p *Planner) Evaluate(ctx context.Context, params catalog.Params, owned [collect.NumTiers]int, first pricing.FirstTimeState) (Outcome, error) {
	label := params.Code
	if label == "" {
		label = "inline"
	}
	start := time.Now()
	defer func() {
		metrics.OptimizeDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	out, err := p.evaluate(ctx, label, params, owned, first)
	if err != nil {
		metrics.OptimizationsTotal.WithLabelValues(label, resultLabel(err)).Inc()
		p.log.Info("plan rejected", "set", label, "err", err)
		return Outcome{}, err
	}
	metrics.OptimizationsTotal.WithLabelValues(label, "ok").Inc()
	metrics.OptimalPacks.WithLabelValues(label).Observe(float64(out.Result.Horizon))
	p.log.Info("plan computed",
		"set", label,
		"packs", out.Result.Horizon,
		"cost", out.Result.Cost,
		"horizon_max", out.Result.HorizonMax,
		"widened", out.Widened,
	)
	return out, nil
}

func (p *Planner) evaluate(ctx context.Context, label string, params catalog.Params, owned [collect.NumTiers]int, first pricing.FirstTimeState) (Outcome, error) {
	if err := ValidateOwned(params.Totals, owned); err != nil {
		return Outcome{}, err
	}
	rates, err := yield.DeriveRates(params.Alpha)
	if err != nil {
		return Outcome{}, err
	}
	specs := yield.Specs(rates, params.Totals, owned)

	out := Outcome{Params: params, Owned: owned, Rates: rates}
	horizon := params.HorizonMax
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		res, err := collect.Optimize(specs, horizon)
		var he *collect.HorizonError
		if errors.As(err, &he) && params.AutoWiden && horizon < params.HorizonLimit {
			next := min(horizon*2, params.HorizonLimit)
			p.log.Warn("minimum at horizon bound, widening",
				"set", label, "horizon_max", horizon, "next", next)
			metrics.HorizonWidenings.WithLabelValues(label).Inc()
			horizon = next
			out.Widened++
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
		out.Result = res
		break
	}

	if params.Token != nil && params.Store != nil && out.Result.Horizon > 0 {
		pp := pricing.PlanForPacks(*params.Store, *params.Token, out.Result.Horizon, first)
		out.Purchase = &pp
	}
	return out, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, collect.ErrHorizonTooSmall):
		return "horizon_too_small"
	case errors.Is(err, collect.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, yield.ErrInvalidRarityParameter):
		return "invalid_alpha"
	case errors.Is(err, collect.ErrDegenerateRate):
		return "degenerate_rate"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
