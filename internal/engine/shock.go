package engine

import "nii-stress/internal/model"

// Shock returns a new curve with shift applied. The input curve is not modified.
//
// A parallel shift moves every tenor by the same amount. A per-tenor shift moves each listed
// tenor by its own amount and leaves unlisted tenors at the baseline yield. Yields may go
// negative; nothing is clamped.
func Shock(curve model.YieldCurve, shift model.Shift) (model.YieldCurve, error) {
	rates := curve.Rates()
	if !shift.IsPerTenor() {
		for t := range rates {
			rates[t] += shift.Parallel
		}
		return model.NewYieldCurve(rates), nil
	}
	for t, amt := range shift.ByTenor {
		if _, ok := rates[t]; !ok {
			return model.YieldCurve{}, &model.InvalidScenarioError{Tenor: t}
		}
		rates[t] += amt
	}
	return model.NewYieldCurve(rates), nil
}

// ApplyScenario is Shock with the scenario name attached to any InvalidScenarioError.
func ApplyScenario(curve model.YieldCurve, sc model.Scenario) (model.YieldCurve, error) {
	shocked, err := Shock(curve, sc.Shift)
	if err != nil {
		if inv, ok := err.(*model.InvalidScenarioError); ok {
			return model.YieldCurve{}, &model.InvalidScenarioError{Scenario: sc.Name, Tenor: inv.Tenor}
		}
		return model.YieldCurve{}, err
	}
	return shocked, nil
}
