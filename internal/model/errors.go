package model

import (
	"fmt"
	"strings"
)

// MissingTenorRateError is returned when a position references a tenor the curve does not carry.
type MissingTenorRateError struct {
	Tenor Tenor
}

func (e *MissingTenorRateError) Error() string {
	return fmt.Sprintf("no rate for tenor %q on the yield curve", e.Tenor)
}

// MismatchedLedgersError is returned when start and end ledgers do not hold the same positions.
// Keys are sorted.
type MismatchedLedgersError struct {
	Keys []string
}

func (e *MismatchedLedgersError) Error() string {
	return fmt.Sprintf("start/end ledgers do not match: unmatched positions [%s]", strings.Join(e.Keys, ", "))
}

// InvalidScenarioError is returned when a scenario shifts a tenor that is not on the base curve.
// Scenario may be empty when the shift was applied outside a named scenario.
type InvalidScenarioError struct {
	Scenario string
	Tenor    Tenor
}

func (e *InvalidScenarioError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("shift references unknown tenor %q", e.Tenor)
	}
	return fmt.Sprintf("scenario %q references unknown tenor %q", e.Scenario, e.Tenor)
}

// UnmappedTenorError is returned when a position's tenor has no repricing bucket.
type UnmappedTenorError struct {
	Tenor Tenor
}

func (e *UnmappedTenorError) Error() string {
	return fmt.Sprintf("tenor %q is not mapped to a repricing bucket", e.Tenor)
}
