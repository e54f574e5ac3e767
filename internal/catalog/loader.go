package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSet is returned when no file exists for a set code.
var ErrUnknownSet = errors.New("unknown set")

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const defaultName = "default"

// Paths helper for default/set files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) SetsDir() string { return filepath.Join(p.BaseDir, "sets") }

func (p Paths) DefaultPath() string {
	return filepath.Join(p.SetsDir(), defaultName+".yaml")
}

func (p Paths) SetPath(code string) string {
	return filepath.Join(p.SetsDir(), strings.ToLower(code)+".yaml")
}

// Loader reads YAML set files and merges default → set.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: lower-case set code
}

// NewLoader creates a set loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the file layout the loader reads.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads default.yaml and <code>.yaml and returns the merge
// (without normalization). The set file must exist; default.yaml is optional.
func (l *Loader) LoadMerged(code string) (RawConfig, error) {
	if !codePattern.MatchString(code) || strings.EqualFold(code, defaultName) {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownSet, code)
	}
	key := strings.ToLower(code)

	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	setCfg, found, err := readYAML(l.paths.SetPath(code))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read set %s: %w", code, err)
	}
	if !found {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownSet, code)
	}

	merged := mergeRaw(defCfg, setCfg)
	if merged.Code == "" {
		merged.Code = strings.ToUpper(code)
	}

	l.mu.Lock()
	l.cache[key] = merged
	l.mu.Unlock()

	return merged, nil
}

// List returns the codes of every set file, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.paths.SetsDir())
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}
		code := strings.TrimSuffix(name, ".yaml")
		if code == defaultName || !codePattern.MatchString(code) {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return a zero
// cfg with found=false and no error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, true, nil
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}

// mergeRaw overlays b on a: set fields of b win.
// Bundle lists are replaced wholesale, not merged by ID.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Code != "" {
		out.Code = b.Code
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	out.Alpha = pick(a.Alpha, b.Alpha)

	out.Totals = TotalsConfig{
		Common:   pick(a.Totals.Common, b.Totals.Common),
		Uncommon: pick(a.Totals.Uncommon, b.Totals.Uncommon),
		Rare:     pick(a.Totals.Rare, b.Totals.Rare),
		Mythic:   pick(a.Totals.Mythic, b.Totals.Mythic),
	}
	out.Horizon = HorizonConfig{
		Max:       pick(a.Horizon.Max, b.Horizon.Max),
		AutoWiden: pick(a.Horizon.AutoWiden, b.Horizon.AutoWiden),
		Limit:     pick(a.Horizon.Limit, b.Horizon.Limit),
	}

	// token
	switch {
	case a.Token == nil && b.Token != nil:
		c := *b.Token
		out.Token = &c
	case a.Token != nil && b.Token != nil:
		c := *a.Token
		if b.Token.Name != "" {
			c.Name = b.Token.Name
		}
		c.PerPack = pick(c.PerPack, b.Token.PerPack)
		c.BulkSize = pick(c.BulkSize, b.Token.BulkSize)
		c.PerBulk = pick(c.PerBulk, b.Token.PerBulk)
		out.Token = &c
	}

	// store
	switch {
	case a.Store == nil && b.Store != nil:
		c := *b.Store
		c.Bundles = append([]BundleConfig(nil), b.Store.Bundles...)
		out.Store = &c
	case a.Store != nil && b.Store != nil:
		c := *a.Store
		if b.Store.Currency != "" {
			c.Currency = b.Store.Currency
		}
		c.TaxRate = pick(c.TaxRate, b.Store.TaxRate)
		if len(b.Store.Bundles) > 0 {
			c.Bundles = append([]BundleConfig(nil), b.Store.Bundles...)
		}
		out.Store = &c
	}

	return out
}
