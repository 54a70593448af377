package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Framework string

const (
	FrameworkCCAR  Framework = "CCAR"
	FrameworkICAAP Framework = "ICAAP"

	// CCARQuarters is the fixed CCAR planning horizon.
	CCARQuarters = 9

	neutralUnemploymentPct  = 5.0
	unemploymentSensitivity = 0.5
)

var (
	ErrUnknownFramework = errors.New("unknown projection framework")
	ErrInvalidHorizon   = errors.New("ICAAP horizon must be 3 or 5 years")
	ErrProvisionRate    = errors.New("provision rate must be within [0, 100]%")
)

// ParseFramework accepts "CCAR" or "ICAAP" in any case.
func ParseFramework(s string) (Framework, error) {
	switch Framework(strings.ToUpper(strings.TrimSpace(s))) {
	case FrameworkCCAR:
		return FrameworkCCAR, nil
	case FrameworkICAAP:
		return FrameworkICAAP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFramework, s)
}

// Assumptions are the macro inputs of a projection, in percent.
type Assumptions struct {
	GDPGrowthPct     float64
	UnemploymentPct  float64
	ProvisionRatePct float64
}

func DefaultAssumptions() Assumptions {
	return Assumptions{GDPGrowthPct: 2.0, UnemploymentPct: 5.0, ProvisionRatePct: 10}
}

// NIIFactor scales base NII: 1 + gdp/100 − (unemployment − 5)/100 × 0.5.
func (a Assumptions) NIIFactor() float64 {
	return 1 + a.GDPGrowthPct/100 - (a.UnemploymentPct-neutralUnemploymentPct)/100*unemploymentSensitivity
}

// Linear is a ratio that starts at Start and moves by Step each period, bounded below by Floor.
type Linear struct {
	Start float64
	Step  float64
	Floor float64
}

// At returns max(Floor, Start + Step × i).
func (l Linear) At(i int) float64 {
	return math.Max(l.Floor, l.Start+l.Step*float64(i))
}

// RatioPath holds the illustrative capital and liquidity ratio paths. They are placeholders
// supplied by the caller, not model output.
type RatioPath struct {
	CET1  Linear
	Tier1 Linear
	LCR   Linear
	NSFR  Linear
}

func DefaultRatioPath() RatioPath {
	return RatioPath{
		CET1:  Linear{Start: 0.12, Step: -0.005, Floor: 0.04},
		Tier1: Linear{Start: 0.13, Step: -0.004, Floor: 0.05},
		LCR:   Linear{Start: 100, Step: -2, Floor: 50},
		NSFR:  Linear{Start: 100, Step: -1, Floor: 50},
	}
}

type ProjectionInput struct {
	Framework Framework
	// HorizonYears applies to ICAAP only.
	HorizonYears int
	// From anchors the first period: the first quarter or year end on or after it.
	From    time.Time
	BaseNII float64

	Assumptions Assumptions
	Ratios      RatioPath
}

type ProjectionRow struct {
	Period     string
	PeriodEnd  time.Time
	NII        float64
	Provisions float64
	PreTaxPL   float64
	CET1       float64
	Tier1      float64
	LCR        float64
	NSFR       float64
}

// Project builds the regulatory projection table: 9 quarter ends for CCAR, horizon+1 year ends
// for ICAAP. NII is the same in every period; only the ratio paths move.
func Project(in ProjectionInput) ([]ProjectionRow, error) {
	var ends []time.Time
	var label func(time.Time) string
	switch in.Framework {
	case FrameworkCCAR:
		ends = quarterEnds(in.From, CCARQuarters)
		label = func(d time.Time) string {
			return fmt.Sprintf("%d-Q%d", d.Year(), (int(d.Month())-1)/3+1)
		}
	case FrameworkICAAP:
		if in.HorizonYears != 3 && in.HorizonYears != 5 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, in.HorizonYears)
		}
		ends = yearEnds(in.From, in.HorizonYears+1)
		label = func(d time.Time) string { return strconv.Itoa(d.Year()) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, in.Framework)
	}
	if in.Assumptions.ProvisionRatePct < 0 || in.Assumptions.ProvisionRatePct > 100 {
		return nil, fmt.Errorf("%w: got %g", ErrProvisionRate, in.Assumptions.ProvisionRatePct)
	}

	nii := in.BaseNII * in.Assumptions.NIIFactor()
	provisions := nii * in.Assumptions.ProvisionRatePct / 100
	rows := make([]ProjectionRow, 0, len(ends))
	for i, d := range ends {
		rows = append(rows, ProjectionRow{
			Period:     label(d),
			PeriodEnd:  d,
			NII:        nii,
			Provisions: provisions,
			PreTaxPL:   nii - provisions,
			CET1:       in.Ratios.CET1.At(i),
			Tier1:      in.Ratios.Tier1.At(i),
			LCR:        in.Ratios.LCR.At(i),
			NSFR:       in.Ratios.NSFR.At(i),
		})
	}
	return rows, nil
}

func quarterEnds(from time.Time, n int) []time.Time {
	y := from.Year()
	m := (int(from.Month())-1)/3*3 + 3
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, monthEnd(y, m))
		m += 3
		if m > 12 {
			m -= 12
			y++
		}
	}
	return out
}

func yearEnds(from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, monthEnd(from.Year()+i, 12))
	}
	return out
}

func monthEnd(y, m int) time.Time {
	return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC)
}
