package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/xtding233/wildcard-planner/internal/catalog"
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/planner"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/token"
)

func exampleOutcome(t *testing.T) planner.Outcome {
	t.Helper()
	p := planner.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	params := catalog.Params{
		Name:       "Example Expansion",
		Code:       "EX1",
		Alpha:      7,
		Totals:     [collect.NumTiers]int{81, 100, 65, 22},
		HorizonMax: 500,
		Token:      &token.Token{Name: "Gems", PerPack: 200},
		Store: &pricing.Store{Currency: "USD", Bundles: []pricing.Bundle{
			{ID: "gems-1600", Name: "1,600 Gems", Tokens: 1600, PriceCents: 999},
		}},
	}
	out, err := p.Evaluate(context.Background(), params, [collect.NumTiers]int{77, 55, 37, 13}, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return out
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{18.6087, 19},
		{97.3054, 97},
	}
	for _, tt := range tests {
		if got := RoundHalfEven(tt.in); got != tt.want {
			t.Errorf("RoundHalfEven(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFixed2(t *testing.T) {
	tests := map[float64]string{
		3.0:                "3",
		30.0 / 11.0:        "2.73",
		6.176470588235295:  "6.18",
		26.250000000000004: "26.25",
	}
	for in, want := range tests {
		if got := Fixed2(in); got != want {
			t.Errorf("Fixed2(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	s := Summary(exampleOutcome(t))
	for _, want := range []string{
		"Example Expansion (EX1)",
		"Common wildcards are worth approximately 3 packs each.",
		"Mythic wildcards are worth approximately 26.25 packs each.",
		"77 / 81 Commons",
		"opening 155 more packs.",
		"81 / 81 Commons,\n",
		"61 / 65 Rares, and\n",
		"19 / 22 Mythics\n",
		"Expected wildcards needed: 0 Common, 3 Uncommon, 4 Rare, 3 Mythic.",
		"Buying 155 packs takes 31000 Gems: 20 x 1,600 Gems for 199.80 USD.",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q\n%s", want, s)
		}
	}
}

func TestSummarySkipsAbsentTier(t *testing.T) {
	out := exampleOutcome(t)
	out.Result.Outcomes[3] = collect.Outcome{Tier: collect.Mythic}
	s := Summary(out)
	if strings.Contains(s, "Mythic") {
		t.Fatalf("absent tier should not be reported:\n%s", s)
	}
	if !strings.Contains(s, "97 / 100 Uncommons, and\n") {
		t.Fatalf("conjunction should move to the new second-to-last tier:\n%s", s)
	}
}

func TestWriteCurveCSV(t *testing.T) {
	out := exampleOutcome(t)
	var buf bytes.Buffer
	if err := WriteCurveCSV(&buf, out.Result); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 502 {
		t.Fatalf("rows = %d, want header + 501", len(rows))
	}
	if strings.Join(rows[0][:4], ",") != "t,cost,common_fraction,uncommon_fraction" {
		t.Fatalf("header = %v", rows[0])
	}
	if len(rows[0]) != 10 {
		t.Fatalf("header has %d columns", len(rows[0]))
	}
	if rows[1][0] != "0" || rows[156][0] != "155" {
		t.Fatalf("unexpected t column: %s %s", rows[1][0], rows[156][0])
	}
	// at t=0 missing commons equals 81-77
	if rows[1][6] != "4" {
		t.Fatalf("common missing at t=0 = %s", rows[1][6])
	}
}

func TestWriteCurveFileZstd(t *testing.T) {
	out := exampleOutcome(t)
	dir := t.TempDir()
	plain := filepath.Join(dir, "curve.csv")
	packed := filepath.Join(dir, "curve.csv.zst")
	if err := WriteCurveFile(plain, out.Result); err != nil {
		t.Fatal(err)
	}
	if err := WriteCurveFile(packed, out.Result); err != nil {
		t.Fatal(err)
	}

	want, err := os.ReadFile(plain)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(packed)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("decompressed curve differs from plain export")
	}
}
