package engine

import (
	"fmt"

	"nii-stress/internal/model"
)

const (
	LabelBaseline = "Baseline"
	LabelTotal    = "Total"
)

// WaterfallStep is one bar of a waterfall.
// CumulativeEnd = CumulativeStart + Delta, and each step starts where the previous one ended.
type WaterfallStep struct {
	Label           string
	Delta           float64
	CumulativeStart float64
	CumulativeEnd   float64
}

// Waterfall attributes the NII change between base and scenario curves to each tenor.
//
// Balances are netted per tenor (assets − liabilities) before multiplying by the rate change,
// so lines that share a rate index offset each other. Steps are: a zero "Baseline" anchor,
// one step per ledger tenor in canonical order, then "Total" (sum of tenor deltas).
// Balance changes are out of scope here; see Attribute.
func Waterfall(ledger model.Ledger, base, scenario model.YieldCurve) ([]WaterfallStep, error) {
	net := map[model.Tenor]float64{}
	ledger.Each(func(side model.Side, p model.Position) {
		net[p.Tenor] += side.Sign() * p.Balance
	})

	tenors := ledger.Tenors()
	labels := make([]string, 0, len(tenors)+2)
	deltas := make([]float64, 0, len(tenors)+2)
	labels = append(labels, LabelBaseline)
	deltas = append(deltas, 0)

	total := 0.0
	for _, t := range tenors {
		r0, err := base.Rate(t)
		if err != nil {
			return nil, fmt.Errorf("base curve: %w", err)
		}
		r1, err := scenario.Rate(t)
		if err != nil {
			return nil, fmt.Errorf("scenario curve: %w", err)
		}
		d := net[t] * (r1 - r0)
		total += d
		labels = append(labels, string(t))
		deltas = append(deltas, d)
	}
	labels = append(labels, LabelTotal)
	deltas = append(deltas, total)

	return Chain(labels, deltas), nil
}

// Chain lays deltas end to end as a running sum. len(labels) must equal len(deltas).
func Chain(labels []string, deltas []float64) []WaterfallStep {
	steps := make([]WaterfallStep, len(deltas))
	cum := 0.0
	for i, d := range deltas {
		steps[i] = WaterfallStep{
			Label:           labels[i],
			Delta:           d,
			CumulativeStart: cum,
			CumulativeEnd:   cum + d,
		}
		cum += d
	}
	return steps
}
