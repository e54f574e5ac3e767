package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xtding233/wildcard-planner/internal/catalog"
	"github.com/xtding233/wildcard-planner/internal/collect"
	"github.com/xtding233/wildcard-planner/internal/planner"
	"github.com/xtding233/wildcard-planner/internal/pricing"
	"github.com/xtding233/wildcard-planner/internal/report"
	"github.com/xtding233/wildcard-planner/internal/yield"
)

//go:embed optimize.schema.json
var optimizeSchemaJSON string

const (
	maxBodyBytes      = 1 << 20
	maxCompletionSize = 2000
	maxCompletionT    = 5000
	maxBudgetCents    = 1_000_000
)

type server struct {
	loader  *catalog.Loader
	planner *planner.Planner
	schema  *jsonschema.Schema
	log     *slog.Logger
}

func newServer(loader *catalog.Loader, log *slog.Logger) (*server, error) {
	schema, err := jsonschema.CompileString("optimize.schema.json", optimizeSchemaJSON)
	if err != nil {
		return nil, err
	}
	return &server{
		loader:  loader,
		planner: planner.New(loader, log),
		schema:  schema,
		log:     log,
	}, nil
}

type countsJSON struct {
	Common   int `json:"common"`
	Uncommon int `json:"uncommon"`
	Rare     int `json:"rare"`
	Mythic   int `json:"mythic"`
}

func (c countsJSON) array() [collect.NumTiers]int {
	return [collect.NumTiers]int{c.Common, c.Uncommon, c.Rare, c.Mythic}
}

func countsFrom(a [collect.NumTiers]int) countsJSON {
	return countsJSON{a[collect.Common], a[collect.Uncommon], a[collect.Rare], a[collect.Mythic]}
}

type optimizeReq struct {
	Set          string      `json:"set"`
	Name         string      `json:"name"`
	Totals       *countsJSON `json:"totals"`
	Owned        countsJSON  `json:"owned"`
	Alpha        *float64    `json:"alpha"`
	HorizonMax   *int        `json:"horizon_max"`
	AutoWiden    *bool       `json:"auto_widen"`
	FirstTime    []string    `json:"first_time"`
	IncludeCurve bool        `json:"include_curve"`
}

type tierJSON struct {
	Tier               string  `json:"tier"`
	SetSize            int     `json:"set_size"`
	Owned              int     `json:"owned"`
	ExpectedNewPerPack float64 `json:"expected_new_per_pack"`
	WildcardRate       float64 `json:"wildcard_rate"`
	PackValue          float64 `json:"pack_equivalent_value"`
	Expected           float64 `json:"expected,omitempty"`
	ExpectedRounded    int64   `json:"expected_rounded,omitempty"`
	Missing            float64 `json:"missing,omitempty"`
}

type purchaseJSON struct {
	Packs    int                `json:"packs"`
	Tokens   int                `json:"tokens"`
	Items    []pricing.Purchase `json:"items"`
	Total    string             `json:"total"`
	Currency string             `json:"currency"`
}

type curveJSON struct {
	T         int       `json:"t"`
	Cost      float64   `json:"cost"`
	Collected []float64 `json:"collected"`
}

type optimizeResp struct {
	Set        string        `json:"set,omitempty"`
	Name       string        `json:"name,omitempty"`
	Alpha      float64       `json:"alpha"`
	Packs      int           `json:"packs"`
	Cost       float64       `json:"cost"`
	HorizonMax int           `json:"horizon_max"`
	Widened    int           `json:"widened"`
	Tiers      []tierJSON    `json:"tiers"`
	Purchase   *purchaseJSON `json:"purchase,omitempty"`
	Summary    string        `json:"summary"`
	Curve      []curveJSON   `json:"curve,omitempty"`
}

type errResp struct {
	Err string `json:"err"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownSet):
		return http.StatusNotFound
	case errors.Is(err, collect.ErrHorizonTooSmall):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collect.ErrInvalidInput),
		errors.Is(err, collect.ErrDegenerateRate),
		errors.Is(err, yield.ErrInvalidRarityParameter),
		errors.Is(err, catalog.ErrInvalidConfig):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errResp{Err: err.Error()})
}

func (s *server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "read body: " + err.Error()})
		return
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid json: " + err.Error()})
		return
	}
	if err := s.schema.Validate(doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return
	}
	var req optimizeReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid request: " + err.Error()})
		return
	}

	first := pricing.FirstTimeState{}
	for _, id := range req.FirstTime {
		first[id] = true
	}

	var out planner.Outcome
	if req.Set != "" {
		out, err = s.planner.Plan(r.Context(), planner.Request{
			Set:        req.Set,
			Owned:      req.Owned.array(),
			Alpha:      req.Alpha,
			HorizonMax: req.HorizonMax,
			AutoWiden:  req.AutoWiden,
			FirstTime:  first,
		})
	} else {
		out, err = s.evaluateInline(r, req, first)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResp(out, req.IncludeCurve))
}

// evaluateInline plans for a set described entirely by the request body.
func (s *server) evaluateInline(r *http.Request, req optimizeReq, first pricing.FirstTimeState) (planner.Outcome, error) {
	if req.Totals == nil {
		return planner.Outcome{}, fmt.Errorf("%w: set or totals is required", collect.ErrInvalidInput)
	}
	t := req.Totals.array()
	raw := catalog.RawConfig{
		Name:  req.Name,
		Alpha: req.Alpha,
		Totals: catalog.TotalsConfig{
			Common:   &t[collect.Common],
			Uncommon: &t[collect.Uncommon],
			Rare:     &t[collect.Rare],
			Mythic:   &t[collect.Mythic],
		},
		Horizon: catalog.HorizonConfig{Max: req.HorizonMax, AutoWiden: req.AutoWiden},
	}
	if err := catalog.ValidateRaw(raw); err != nil {
		return planner.Outcome{}, err
	}
	return s.planner.Evaluate(r.Context(), catalog.Normalize(raw), req.Owned.array(), first)
}

func toResp(o planner.Outcome, withCurve bool) optimizeResp {
	res := o.Result
	resp := optimizeResp{
		Set:        o.Params.Code,
		Name:       o.Params.Name,
		Alpha:      o.Params.Alpha,
		Packs:      res.Horizon,
		Cost:       res.Cost,
		HorizonMax: res.HorizonMax,
		Widened:    o.Widened,
		Summary:    report.Summary(o),
	}
	rounded := report.ExpectedCounts(res)
	for i, oc := range res.Outcomes {
		rt := o.Rates[oc.Tier]
		resp.Tiers = append(resp.Tiers, tierJSON{
			Tier:               oc.Tier.String(),
			SetSize:            oc.SetSize,
			Owned:              oc.Owned,
			ExpectedNewPerPack: rt.ExpectedNewPerPack,
			WildcardRate:       rt.WildcardRate,
			PackValue:          rt.PackEquivalentValue(),
			Expected:           oc.Expected,
			ExpectedRounded:    rounded[i],
			Missing:            oc.Missing,
		})
	}
	if pp := o.Purchase; pp != nil {
		resp.Purchase = &purchaseJSON{
			Packs:    pp.Packs,
			Tokens:   pp.Tokens,
			Items:    pp.Plan.Purchases,
			Total:    pp.Plan.Total().StringFixed(2),
			Currency: pp.Plan.Currency,
		}
	}
	if withCurve {
		resp.Curve = make([]curveJSON, len(res.Curve))
		for i, p := range res.Curve {
			resp.Curve[i] = curveJSON{T: p.T, Cost: p.Cost, Collected: p.Collected}
		}
	}
	return resp
}

type setJSON struct {
	Code       string         `json:"code"`
	Name       string         `json:"name"`
	Alpha      float64        `json:"alpha"`
	Totals     countsJSON     `json:"totals"`
	HorizonMax int            `json:"horizon_max"`
	AutoWiden  bool           `json:"auto_widen"`
	Token      *tokenJSON     `json:"token,omitempty"`
	Store      *pricing.Store `json:"store,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Version    string         `json:"version,omitempty"`
}

type tokenJSON struct {
	Name     string `json:"name"`
	PerPack  int    `json:"per_pack"`
	BulkSize int    `json:"bulk_size,omitempty"`
	PerBulk  int    `json:"per_bulk,omitempty"`
}

func toSetJSON(p catalog.Params) setJSON {
	out := setJSON{
		Code:       p.Code,
		Name:       p.Name,
		Alpha:      p.Alpha,
		Totals:     countsFrom(p.Totals),
		HorizonMax: p.HorizonMax,
		AutoWiden:  p.AutoWiden,
		Store:      p.Store,
		Notes:      p.Notes,
		Version:    p.Version,
	}
	if p.Token != nil {
		out.Token = &tokenJSON{p.Token.Name, p.Token.PerPack, p.Token.BulkSize, p.Token.PerBulk}
	}
	return out
}

func (s *server) handleListSets(w http.ResponseWriter, r *http.Request) {
	codes, err := s.loader.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	sets := make([]setJSON, 0, len(codes))
	for _, code := range codes {
		_, p, err := s.loader.Resolve(code, catalog.Overrides{})
		if err != nil {
			s.log.Warn("skipping invalid set", "set", code, "err", err)
			continue
		}
		sets = append(sets, toSetJSON(p))
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	_, p, err := s.loader.Resolve(chi.URLParam(r, "code"), catalog.Overrides{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSetJSON(p))
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	alpha, ok, msg := parseFloat(r, "alpha")
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	o := catalog.Overrides{}
	if ok {
		o.Alpha = &alpha
	}
	_, p, err := s.loader.Resolve(chi.URLParam(r, "code"), o)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rates, err := yield.DeriveRates(p.Alpha)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tiers := make([]tierJSON, 0, collect.NumTiers)
	for _, tier := range collect.Tiers {
		rt := rates[tier]
		tiers = append(tiers, tierJSON{
			Tier:               tier.String(),
			SetSize:            p.Totals[tier],
			ExpectedNewPerPack: rt.ExpectedNewPerPack,
			WildcardRate:       rt.WildcardRate,
			PackValue:          rt.PackEquivalentValue(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"set": p.Code, "alpha": p.Alpha, "tiers": tiers})
}

func (s *server) handlePacksForBudget(w http.ResponseWriter, r *http.Request) {
	budget, ok, msg := parseInt(r, "budget_cents")
	if !ok || msg != "" || budget <= 0 {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing/invalid param budget_cents"})
		return
	}
	if budget > maxBudgetCents {
		writeJSON(w, http.StatusBadRequest, errResp{Err: fmt.Sprintf("budget_cents must be <= %d", maxBudgetCents)})
		return
	}
	_, p, err := s.loader.Resolve(chi.URLParam(r, "code"), catalog.Overrides{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if p.Token == nil || p.Store == nil {
		writeJSON(w, http.StatusNotFound, errResp{Err: "set has no store configured"})
		return
	}
	first := pricing.FirstTimeState{}
	for _, id := range strings.Split(r.URL.Query().Get("first_time"), ",") {
		if id != "" {
			first[id] = true
		}
	}
	pp := pricing.PacksUnderBudget(*p.Store, *p.Token, budget, first)
	writeJSON(w, http.StatusOK, purchaseJSON{
		Packs:    pp.Packs,
		Tokens:   pp.Tokens,
		Items:    pp.Plan.Purchases,
		Total:    pp.Plan.Total().StringFixed(2),
		Currency: pp.Plan.Currency,
	})
}

type completionResp struct {
	PerPack int       `json:"per_pack"`
	SetSize int       `json:"set_size"`
	CDF     []float64 `json:"cdf"`
	PMF     []float64 `json:"pmf"`
}

func (s *server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	perPack, ok, msg := parseInt(r, "per_pack")
	if !ok || msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing/invalid param per_pack"})
		return
	}
	setSize, ok, msg := parseInt(r, "set_size")
	if !ok || msg != "" || setSize > maxCompletionSize {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing/invalid param set_size"})
		return
	}
	tMax, ok, msg := parseInt(r, "t_max")
	if msg != "" || tMax > maxCompletionT {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid param t_max"})
		return
	}
	if !ok {
		tMax = collect.DefaultCompletionHorizon(setSize)
	}
	cdf, err := collect.CompletionCurve(perPack, setSize, tMax)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completionResp{
		PerPack: perPack,
		SetSize: setSize,
		CDF:     cdf,
		PMF:     collect.CompletionPMF(cdf),
	})
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}
