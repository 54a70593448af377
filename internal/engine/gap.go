package engine

import (
	"fmt"

	"nii-stress/internal/model"
)

// DV01Method labels the DV01 figures: a first-order linear proxy, not a present-value calculation.
const DV01Method = "linear approximation: gap x duration x shift_bp"

// BucketGap is the repricing gap of one bucket.
type BucketGap struct {
	Bucket        string
	DurationYears float64
	Gap           float64
	CumulativeGap float64
}

// DV01Point is the approximate sensitivity of one bucket under one scenario.
type DV01Point struct {
	Scenario string
	Bucket   string
	ShiftBP  float64
	DV01     float64
}

type GapReport struct {
	Buckets []BucketGap
	DV01    []DV01Point
	Method  string
}

// GapByBucket returns bucket name -> gap. Every bucket of the scheme is present.
func (r *GapReport) GapByBucket() map[string]float64 {
	out := make(map[string]float64, len(r.Buckets))
	for _, b := range r.Buckets {
		out[b.Bucket] = b.Gap
	}
	return out
}

// GapAndDV01 buckets positions by tenor and computes, per bucket,
// gap = Σ asset balances − Σ liability balances, and for each scenario
// DV01 = gap × duration × shift_bp. Buckets with no positions report a gap of 0.
// DV01 rows are ordered scenario-major, then bucket order of the scheme.
func GapAndDV01(ledger model.Ledger, scheme model.BucketScheme, scenarios []model.DV01Scenario) (*GapReport, error) {
	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("bucket scheme: %w", err)
	}

	gaps := make(map[string]float64, len(scheme.Buckets))
	var err error
	ledger.Each(func(side model.Side, p model.Position) {
		if err != nil {
			return
		}
		name, berr := scheme.BucketFor(p.Tenor)
		if berr != nil {
			err = fmt.Errorf("%s %s: %w", side, p.Type, berr)
			return
		}
		gaps[name] += side.Sign() * p.Balance
	})
	if err != nil {
		return nil, err
	}

	rep := &GapReport{
		Buckets: make([]BucketGap, 0, len(scheme.Buckets)),
		DV01:    make([]DV01Point, 0, len(scheme.Buckets)*len(scenarios)),
		Method:  DV01Method,
	}
	cum := 0.0
	for _, b := range scheme.Buckets {
		g := gaps[b.Name]
		cum += g
		rep.Buckets = append(rep.Buckets, BucketGap{
			Bucket:        b.Name,
			DurationYears: b.DurationYears,
			Gap:           g,
			CumulativeGap: cum,
		})
	}
	for _, sc := range scenarios {
		for _, b := range rep.Buckets {
			rep.DV01 = append(rep.DV01, DV01Point{
				Scenario: sc.Name,
				Bucket:   b.Bucket,
				ShiftBP:  sc.ShiftBP,
				DV01:     b.Gap * b.DurationYears * sc.ShiftBP,
			})
		}
	}
	return rep, nil
}
