package engine

import (
	"fmt"
	"sort"

	"nii-stress/internal/model"
)

// AttributionLine is one matched start/end position's contribution. Terms carry the side's sign
// (liabilities negative), so lines sum to the Attribution totals.
type AttributionLine struct {
	Key          string
	Side         model.Side
	Type         string
	Tenor        model.Tenor
	StartBalance float64
	EndBalance   float64
	StartRate    float64
	EndRate      float64

	StartingNII    float64
	RateVariance   float64
	VolumeVariance float64
	MixVariance    float64
	EndingNII      float64
}

// Attribution decomposes the NII change between two snapshots:
//
//	StartingNII + RateVariance + VolumeVariance + MixVariance == EndingNII
//
// up to floating-point rounding.
type Attribution struct {
	StartingNII    float64
	RateVariance   float64
	VolumeVariance float64
	MixVariance    float64
	EndingNII      float64
	Lines          []AttributionLine
}

// Residual is StartingNII + the three variances − EndingNII. It is zero up to rounding.
func (a *Attribution) Residual() float64 {
	return a.StartingNII + a.RateVariance + a.VolumeVariance + a.MixVariance - a.EndingNII
}

// Steps renders the decomposition as a waterfall chain: Starting NII, then the three
// variances. The last step's CumulativeEnd is the ending NII.
func (a *Attribution) Steps() []WaterfallStep {
	return Chain(
		[]string{"Starting NII", "Rate Variance", "Volume Variance", "Mix Variance"},
		[]float64{a.StartingNII, a.RateVariance, a.VolumeVariance, a.MixVariance},
	)
}

// PositionKey identifies a position across snapshots: side, type and tenor.
func PositionKey(side model.Side, p model.Position) string {
	return fmt.Sprintf("%s/%s/%s", side, p.Type, p.Tenor)
}

type keyed struct {
	side    model.Side
	typ     string
	tenor   model.Tenor
	balance float64
}

// Attribute splits the NII change from (start ledger, start curve) to (end ledger, end curve)
// into rate, volume and mix effects:
//
//	rate   = Σ b0 × (r1 − r0)
//	volume = Σ (b1 − b0) × r0
//	mix    = Σ (b1 − b0) × (r1 − r0)
//
// Each sum runs over positions matched by PositionKey, assets and liabilities separately, with
// the liability sums subtracted. Both ledgers must hold the same keys; any business-unit filter
// is applied to the ledgers before calling.
func Attribute(startLedger, endLedger model.Ledger, startCurve, endCurve model.YieldCurve) (*Attribution, error) {
	start, order := index(startLedger)
	end, _ := index(endLedger)

	var unmatched []string
	for k := range start {
		if _, ok := end[k]; !ok {
			unmatched = append(unmatched, k)
		}
	}
	for k := range end {
		if _, ok := start[k]; !ok {
			unmatched = append(unmatched, k)
		}
	}
	if len(unmatched) > 0 {
		sort.Strings(unmatched)
		return nil, &model.MismatchedLedgersError{Keys: unmatched}
	}

	// Per-side accumulators; netted once at the end.
	var assets, liabs [5]float64
	lines := make([]AttributionLine, 0, len(order))
	for _, k := range order {
		s, e := start[k], end[k]
		r0, err := startCurve.Rate(s.tenor)
		if err != nil {
			return nil, fmt.Errorf("start curve: %w", err)
		}
		r1, err := endCurve.Rate(s.tenor)
		if err != nil {
			return nil, fmt.Errorf("end curve: %w", err)
		}
		b0, b1 := s.balance, e.balance
		terms := [5]float64{
			b0 * r0,
			b0 * (r1 - r0),
			(b1 - b0) * r0,
			(b1 - b0) * (r1 - r0),
			b1 * r1,
		}
		acc := &assets
		if s.side == model.SideLiability {
			acc = &liabs
		}
		for i := range terms {
			acc[i] += terms[i]
		}
		sign := s.side.Sign()
		lines = append(lines, AttributionLine{
			Key:            k,
			Side:           s.side,
			Type:           s.typ,
			Tenor:          s.tenor,
			StartBalance:   b0,
			EndBalance:     b1,
			StartRate:      r0,
			EndRate:        r1,
			StartingNII:    sign * terms[0],
			RateVariance:   sign * terms[1],
			VolumeVariance: sign * terms[2],
			MixVariance:    sign * terms[3],
			EndingNII:      sign * terms[4],
		})
	}

	return &Attribution{
		StartingNII:    assets[0] - liabs[0],
		RateVariance:   assets[1] - liabs[1],
		VolumeVariance: assets[2] - liabs[2],
		MixVariance:    assets[3] - liabs[3],
		EndingNII:      assets[4] - liabs[4],
		Lines:          lines,
	}, nil
}

// index aggregates a ledger by PositionKey, returning keys in first-seen order.
func index(l model.Ledger) (map[string]*keyed, []string) {
	out := map[string]*keyed{}
	var order []string
	l.Each(func(side model.Side, p model.Position) {
		k := PositionKey(side, p)
		if cur, ok := out[k]; ok {
			cur.balance += p.Balance
			return
		}
		out[k] = &keyed{side: side, typ: p.Type, tenor: p.Tenor, balance: p.Balance}
		order = append(order, k)
	})
	return out, order
}
