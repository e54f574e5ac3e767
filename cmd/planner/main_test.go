package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPrintsSummary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", "../../config", "-set", "ex1", "-owned", "77,55,37,13"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	for _, want := range []string{
		"Example Expansion (EX1)",
		"opening 155 more packs.",
		"Buying 155 packs takes 31000 Gems",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q\n%s", want, stdout.String())
		}
	}
}

func TestRunHorizonTooSmall(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"-config", "../../config", "-set", "ex1", "-owned", "77,55,37,13", "-horizon", "100"}
	if code := run(context.Background(), args, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), "-horizon 200") {
		t.Fatalf("stderr = %s", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	args = append(args, "-auto-widen")
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("auto-widen exit %d: %s", code, stderr.String())
	}
}

func TestRunWritesCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.csv.zst")
	var stdout, stderr bytes.Buffer
	args := []string{"-config", "../../config", "-set", "ex2", "-curve", path}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("curve file: %v", err)
	}
}

func TestRunBadArgs(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-set", "ex1", "-owned", "1,2,x"},
		{"-set", "ex1", "-owned", "1,2,3,4,5"},
		{"-bogus"},
	} {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != 2 {
			t.Errorf("%v: exit %d", args, code)
		}
	}
}

func TestParseOwnedPartial(t *testing.T) {
	got, err := parseOwned("3, 4")
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 3 || got[1] != 4 || got[2] != 0 || got[3] != 0 {
		t.Fatalf("got %v", got)
	}
}
