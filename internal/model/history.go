package model

import "time"

// Observation is the yield curve observed on one date.
type Observation struct {
	Date  time.Time
	Rates map[Tenor]float64
}

// Curve returns the observation as an immutable YieldCurve.
func (o Observation) Curve() YieldCurve { return NewYieldCurve(o.Rates) }

// History is an ordered (ascending date) series of observations.
type History []Observation
