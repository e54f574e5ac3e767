package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/xtding233/wildcard-planner/internal/collect"
)

func ftoa(x float64) string { return strconv.FormatFloat(x, 'g', 10, 64) }

// WriteCurveCSV writes one row per horizon: t, total cost, then the
// collected fraction and expected missing count of every tier.
func WriteCurveCSV(w io.Writer, res collect.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"t", "cost"}
	for _, o := range res.Outcomes {
		header = append(header, strings.ToLower(o.Tier.String())+"_fraction")
	}
	for _, o := range res.Outcomes {
		header = append(header, strings.ToLower(o.Tier.String())+"_missing")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for _, p := range res.Curve {
		row = append(row[:0], strconv.Itoa(p.T), ftoa(p.Cost))
		for i, o := range res.Outcomes {
			frac := 0.0
			if o.SetSize > 0 {
				frac = p.Collected[i] / float64(o.SetSize)
			}
			row = append(row, ftoa(frac))
		}
		for i, o := range res.Outcomes {
			missing := 0.0
			if o.SetSize > 0 {
				missing = max(0, float64(o.SetSize)-p.Collected[i])
			}
			row = append(row, ftoa(missing))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurveFile writes the curve CSV to path, zstd-compressed when the
// path ends in ".zst".
func WriteCurveFile(path string, res collect.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return WriteCurveCSV(f, res)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := WriteCurveCSV(enc, res); err != nil {
		_ = enc.Close()
		return fmt.Errorf("curve %s: %w", path, err)
	}
	return enc.Close()
}
