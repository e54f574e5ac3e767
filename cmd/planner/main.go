// Command planner prints how many packs to open before finishing a set with
// wildcards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xtding233/wildcard-planner/internal/catalog"
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/planner"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/report"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configDir = fs.String("config", "config", "config directory holding sets/")
		set       = fs.String("set", "", "set code, e.g. ex1 (required)")
		ownedStr  = fs.String("owned", "", "owned cards as common,uncommon,rare,mythic")
		alpha     = fs.Float64("alpha", 0, "override rare slots per mythic")
		horizon   = fs.Int("horizon", 0, "override maximum packs considered")
		widen     = fs.Bool("auto-widen", false, "double the horizon while the minimum sits on it")
		firstTime = fs.String("first-time", "", "comma separated bundle ids with the first purchase bonus available")
		curve     = fs.String("curve", "", "write the cost curve CSV here; a .zst suffix compresses it")
		verbose   = fs.Bool("v", false, "log planner decisions to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *set == "" {
		fmt.Fprintln(stderr, "planner: -set is required")
		fs.Usage()
		return 2
	}
	owned, err := parseOwned(*ownedStr)
	if err != nil {
		fmt.Fprintf(stderr, "planner: %v\n", err)
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	req := planner.Request{Set: *set, Owned: owned, FirstTime: pricing.FirstTimeState{}}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "alpha":
			req.Alpha = alpha
		case "horizon":
			req.HorizonMax = horizon
		case "auto-widen":
			req.AutoWiden = widen
		}
	})
	for _, id := range strings.Split(*firstTime, ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.FirstTime[id] = true
		}
	}

	out, err := planner.New(catalog.NewLoader(*configDir), logger).Plan(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "planner: %v\n", err)
		var he *collect.HorizonError
		if errors.As(err, &he) {
			fmt.Fprintf(stderr, "planner: try -horizon %d or -auto-widen\n", he.HorizonMax*2)
		}
		return 1
	}

	fmt.Fprint(stdout, report.Summary(out))
	if *curve != "" {
		if err := report.WriteCurveFile(*curve, out.Result); err != nil {
			fmt.Fprintf(stderr, "planner: write curve: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nCost curve written to %s\n", *curve)
	}
	return 0
}

// parseOwned reads "c,u,r,m". Missing trailing values count as zero.
func parseOwned(s string) ([collect.NumTiers]int, error) {
	var owned [collect.NumTiers]int
	if strings.TrimSpace(s) == "" {
		return owned, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > collect.NumTiers {
		return owned, fmt.Errorf("-owned takes at most %d values, got %d", collect.NumTiers, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return owned, fmt.Errorf("-owned: %s count %q is not an integer", collect.Tier(i), p)
		}
		owned[i] = v
	}
	return owned, nil
}
