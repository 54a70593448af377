package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nii-stress/internal/api/models"
	"nii-stress/internal/config"
	"nii-stress/internal/data"
	"nii-stress/internal/metrics"
	"nii-stress/internal/model"
	"nii-stress/internal/report"
	"nii-stress/internal/scenario"
)

// Env is what the handlers share. Everything in it is read-only after startup.
type Env struct {
	Config   *config.Config
	Registry *scenario.Registry
	Curves   *data.CurveSource
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// NewEnv wires handlers to a validated config.
func NewEnv(cfg *config.Config, curves *data.CurveSource, m *metrics.Metrics) (*Env, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Registry: reg, Curves: curves, Metrics: m, Now: time.Now}, nil
}

var (
	errInvalidShift  = errors.New("invalid shift")
	errMissingLedger = errors.New("missing ledger")
)

// requestError carries a specific error code for a failure found while reading a request.
type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func toLedger(p *models.LedgerPayload) (model.Ledger, error) {
	if p == nil {
		return model.Ledger{}, errMissingLedger
	}
	conv := func(in []models.PositionPayload) ([]model.Position, error) {
		out := make([]model.Position, 0, len(in))
		for _, pp := range in {
			bu, err := model.ParseBusinessUnit(pp.BusinessUnit)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pp.Type, err)
			}
			out = append(out, model.Position{
				Type:         pp.Type,
				Balance:      pp.Balance,
				Tenor:        model.Tenor(pp.Tenor),
				BusinessUnit: bu,
			})
		}
		return out, nil
	}
	assets, err := conv(p.Assets)
	if err != nil {
		return model.Ledger{}, err
	}
	liabs, err := conv(p.Liabilities)
	if err != nil {
		return model.Ledger{}, err
	}
	return model.NewLedger(assets, liabs)
}

func toCurve(m map[string]float64) model.YieldCurve {
	rates := make(map[model.Tenor]float64, len(m))
	for t, r := range m {
		rates[model.Tenor(t)] = r
	}
	return model.NewYieldCurve(rates)
}

func toShift(p models.ShiftPayload) (model.Shift, error) {
	if p.Parallel != nil && len(p.ByTenor) > 0 {
		return model.Shift{}, fmt.Errorf("%w: give either parallel or by_tenor, not both", errInvalidShift)
	}
	if len(p.ByTenor) > 0 {
		m := make(map[model.Tenor]float64, len(p.ByTenor))
		for t, a := range p.ByTenor {
			m[model.Tenor(t)] = a
		}
		return model.PerTenorShift(m), nil
	}
	if p.Parallel != nil {
		return model.ParallelShift(*p.Parallel), nil
	}
	return model.ParallelShift(0), nil
}

func toScenarios(ps []models.ScenarioPayload) ([]model.Scenario, error) {
	out := make([]model.Scenario, 0, len(ps))
	for _, p := range ps {
		sh, err := toShift(p.Shift)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", p.Name, err)
		}
		out = append(out, model.Scenario{Name: p.Name, Shift: sh, Description: p.Description})
	}
	return out, nil
}

// ledger returns the request's ledger, or the configured current book, filtered by business unit.
func (e *Env) ledger(p *models.LedgerPayload, businessUnit string) (model.Ledger, error) {
	bu, err := model.ParseBusinessUnit(businessUnit)
	if err != nil {
		return model.Ledger{}, err
	}
	var l model.Ledger
	if p != nil {
		l, err = toLedger(p)
	} else {
		l, err = e.Config.CurrentLedger()
	}
	if err != nil {
		return model.Ledger{}, err
	}
	return l.Filter(model.ByBusinessUnit(bu)), nil
}

// curve returns the request's curve, or the current curve from the curve source.
func (e *Env) curve(ctx context.Context, m map[string]float64) (model.YieldCurve, string, error) {
	if len(m) > 0 {
		return toCurve(m), "request", nil
	}
	if e.Curves == nil {
		return model.YieldCurve{}, "", data.ErrNoCurve
	}
	rc, err := e.Curves.Latest(ctx)
	if err != nil {
		return model.YieldCurve{}, "", err
	}
	return rc.Curve, rc.Source, nil
}

// scenario resolves an explicit shift first, then a registry selection, else no shock.
func (e *Env) scenario(shift *models.ShiftPayload, sel *models.SelectionPayload) (model.Scenario, error) {
	if shift != nil {
		sh, err := toShift(*shift)
		if err != nil {
			return model.Scenario{}, err
		}
		return model.Scenario{Name: "Custom", Shift: sh}, nil
	}
	if sel != nil {
		return e.Registry.Select(scenario.Selection{
			RateShock:  sel.RateShock,
			CustomBP:   sel.CustomBP,
			Regulatory: sel.Regulatory,
		})
	}
	return model.Scenario{Name: scenario.Baseline, Shift: model.ParallelShift(0)}, nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &requestError{code: "INVALID_DATE", err: fmt.Errorf("%s must be in YYYY-MM-DD format", field)}
	}
	return d, nil
}

type rounder func(float64) float64

func rounding(on bool) rounder {
	if !on {
		return func(x float64) float64 { return x }
	}
	return func(x float64) float64 { return report.Round(x, 2) }
}
