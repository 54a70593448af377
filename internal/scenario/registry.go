// Package scenario holds the named rate-shock and regulatory presets and the rule that turns a
// dashboard-style selection into the single scenario to run.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"nii-stress/internal/model"
)

const (
	GroupRateShocks = "rate_shocks"
	GroupRegulatory = "regulatory"

	// Custom selects the caller's own bp shift instead of a rate-shock preset.
	Custom = "Custom"
	// Baseline as the regulatory choice applies the rate-shock shift flat to every tenor.
	Baseline = "Baseline"

	MinCustomBP  = -300
	MaxCustomBP  = 300
	CustomStepBP = 25
)

var (
	ErrUnknownGroup    = errors.New("unknown scenario group")
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrCustomBPRange   = fmt.Errorf("custom shift must be within [%d, %d] bp", MinCustomBP, MaxCustomBP)
	ErrCustomBPStep    = fmt.Errorf("custom shift must be a multiple of %d bp", CustomStepBP)
	ErrNotParallel     = errors.New("rate shock must be a parallel shift")
)

// Registry is an immutable set of named presets, in configured order.
type Registry struct {
	RateShocks []model.Scenario
	Regulatory []model.Scenario
}

// New builds a registry. Names must be non-empty and unique within a group, and "Custom" is
// reserved for the rate-shock group.
func New(rateShocks, regulatory []model.Scenario) (*Registry, error) {
	if err := checkNames(GroupRateShocks, rateShocks); err != nil {
		return nil, err
	}
	if err := checkNames(GroupRegulatory, regulatory); err != nil {
		return nil, err
	}
	for _, s := range rateShocks {
		if s.Name == Custom {
			return nil, fmt.Errorf("%s: %q is reserved", GroupRateShocks, Custom)
		}
	}
	return &Registry{
		RateShocks: append([]model.Scenario(nil), rateShocks...),
		Regulatory: append([]model.Scenario(nil), regulatory...),
	}, nil
}

func checkNames(group string, ss []model.Scenario) error {
	seen := map[string]bool{}
	for i, s := range ss {
		if s.Name == "" {
			return fmt.Errorf("%s[%d]: name is required", group, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%s: duplicate scenario %q", group, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Group returns the scenarios of one group, in configured order.
func (r *Registry) Group(name string) ([]model.Scenario, error) {
	switch name {
	case GroupRateShocks:
		return append([]model.Scenario(nil), r.RateShocks...), nil
	case GroupRegulatory:
		return append([]model.Scenario(nil), r.Regulatory...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// Lookup finds a scenario by name, rate shocks first.
func (r *Registry) Lookup(name string) (model.Scenario, bool) {
	if s, ok := find(r.RateShocks, name); ok {
		return s, true
	}
	return find(r.Regulatory, name)
}

func find(ss []model.Scenario, name string) (model.Scenario, bool) {
	for _, s := range ss {
		if s.Name == name {
			return s, true
		}
	}
	return model.Scenario{}, false
}

// Names lists scenario names per group.
func (r *Registry) Names() map[string][]string {
	out := map[string][]string{
		GroupRateShocks: make([]string, 0, len(r.RateShocks)),
		GroupRegulatory: make([]string, 0, len(r.Regulatory)),
	}
	for _, s := range r.RateShocks {
		out[GroupRateShocks] = append(out[GroupRateShocks], s.Name)
	}
	for _, s := range r.Regulatory {
		out[GroupRegulatory] = append(out[GroupRegulatory], s.Name)
	}
	return out
}

// Selection is a user's choice of rate shock and regulatory scenario.
// An empty RateShock means no rate shock; an empty Regulatory means Baseline.
type Selection struct {
	RateShock  string
	CustomBP   float64
	Regulatory string
}

// ValidateCustomBP checks a custom shift against the allowed range and step.
func ValidateCustomBP(bp float64) error {
	if bp < MinCustomBP || bp > MaxCustomBP {
		return fmt.Errorf("%w: got %g", ErrCustomBPRange, bp)
	}
	if math.Mod(bp, CustomStepBP) != 0 {
		return fmt.Errorf("%w: got %g", ErrCustomBPStep, bp)
	}
	return nil
}

// Select resolves a selection to the scenario to run.
//
// The rate-shock shift is the custom bp shift when RateShock is "Custom", else the preset's
// parallel amount. A regulatory choice of "Baseline" applies that shift flat to every tenor;
// any other regulatory preset is returned as configured and the rate shock is ignored.
func (r *Registry) Select(sel Selection) (model.Scenario, error) {
	reg := sel.Regulatory
	if reg == "" {
		reg = Baseline
	}
	if reg != Baseline {
		s, ok := find(r.Regulatory, reg)
		if !ok {
			return model.Scenario{}, fmt.Errorf("%w: regulatory %q", ErrUnknownScenario, reg)
		}
		return s, nil
	}

	switch sel.RateShock {
	case "":
		return model.Scenario{Name: Baseline, Shift: model.ParallelShift(0)}, nil
	case Custom:
		if err := ValidateCustomBP(sel.CustomBP); err != nil {
			return model.Scenario{}, err
		}
		return model.Scenario{
			Name:  fmt.Sprintf("Custom (%+g bp)", sel.CustomBP),
			Shift: model.ParallelShift(model.BPToDecimal(sel.CustomBP)),
		}, nil
	}
	s, ok := find(r.RateShocks, sel.RateShock)
	if !ok {
		return model.Scenario{}, fmt.Errorf("%w: rate shock %q", ErrUnknownScenario, sel.RateShock)
	}
	if s.Shift.IsPerTenor() {
		return model.Scenario{}, fmt.Errorf("%w: %q", ErrNotParallel, s.Name)
	}
	return s, nil
}
