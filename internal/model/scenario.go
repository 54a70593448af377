package model

// Scenario is a named rate shock. Registries of scenarios are caller-supplied tables,
// not engine state.
type Scenario struct {
	Name        string
	Shift       Shift
	Description []string
}

// DV01Scenario is a flat shift, in basis points, used by the gap/DV01 analysis.
type DV01Scenario struct {
	Name    string
	ShiftBP float64
}
