package scenario

import "nii-stress/internal/model"

// DefaultTenors are the curve points the built-in presets cover.
var DefaultTenors = []model.Tenor{"3M", "1Y", "5Y", "10Y"}

// DefaultRateShocks are the illustrative parallel presets used when no config supplies any.
func DefaultRateShocks() []model.Scenario {
	return []model.Scenario{
		{Name: "Baseline (0 bp)", Shift: model.ParallelShift(0)},
		{Name: "Adverse (-100 bp)", Shift: model.ParallelShift(-0.01)},
		{Name: "Severely Adverse (-250 bp)", Shift: model.ParallelShift(-0.025)},
		{Name: "Rate Hike Shock (+100 bp)", Shift: model.ParallelShift(0.01)},
		{Name: "Extreme Hike (+200 bp)", Shift: model.ParallelShift(0.02)},
	}
}

// DefaultRegulatory are the illustrative CCAR-style presets, per tenor over DefaultTenors.
func DefaultRegulatory() []model.Scenario {
	return []model.Scenario{
		{
			Name:        "Baseline",
			Shift:       flat(0),
			Description: []string{"No stress; consensus forecasts"},
		},
		{
			Name:        "Adverse",
			Shift:       flat(-0.01),
			Description: []string{"Moderate recession", "Rising risk premia"},
		},
		{
			Name:  "Severely Adverse",
			Shift: flat(-0.025),
			Description: []string{
				"Severe global recession",
				"10%+ unemployment",
				"Sharp declines in asset prices",
				"Stress in corporate credit & real estate",
			},
		},
	}
}

// DefaultDV01Scenarios are the bp shifts reported by the gap view.
func DefaultDV01Scenarios() []model.DV01Scenario {
	return []model.DV01Scenario{
		{Name: "Baseline", ShiftBP: 0},
		{Name: "Adverse", ShiftBP: -100},
		{Name: "Severely Adverse", ShiftBP: -250},
	}
}

// Default is a registry over the built-in presets.
func Default() *Registry {
	return &Registry{RateShocks: DefaultRateShocks(), Regulatory: DefaultRegulatory()}
}

func flat(amount float64) model.Shift {
	m := make(map[model.Tenor]float64, len(DefaultTenors))
	for _, t := range DefaultTenors {
		m[t] = amount
	}
	return model.PerTenorShift(m)
}
