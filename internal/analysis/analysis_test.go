package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nii-stress/internal/engine"
	"nii-stress/internal/model"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleHistory() model.History {
	// deliberately out of order
	return model.History{
		{Date: day("2024-03-01"), Rates: map[model.Tenor]float64{"1Y": 0.050, "5Y": 0.042}},
		{Date: day("2024-01-01"), Rates: map[model.Tenor]float64{"1Y": 0.048, "5Y": 0.040}},
		{Date: day("2024-02-01"), Rates: map[model.Tenor]float64{"1Y": 0.049, "5Y": 0.041}},
		{Date: day("2024-04-01"), Rates: map[model.Tenor]float64{"1Y": 0.051, "5Y": 0.045}},
	}
}

func TestPeriodCurves(t *testing.T) {
	p, err := PeriodCurves(sampleHistory(), day("2024-01-15"), day("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-01"), p.StartDate)
	assert.Equal(t, day("2024-03-01"), p.EndDate)
	assert.Equal(t, 2, p.Observations)
	r, err := p.StartCurve.Rate("5Y")
	require.NoError(t, err)
	assert.Equal(t, 0.041, r)
	r, err = p.EndCurve.Rate("1Y")
	require.NoError(t, err)
	assert.Equal(t, 0.050, r)
}

func TestPeriodCurvesBoundsAreInclusive(t *testing.T) {
	p, err := PeriodCurves(sampleHistory(), day("2024-01-01"), day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Observations)
	assert.Equal(t, p.StartCurve, p.EndCurve)
}

func TestPeriodCurvesErrors(t *testing.T) {
	_, err := PeriodCurves(sampleHistory(), day("2024-05-01"), day("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvertedWindow)

	_, err = PeriodCurves(sampleHistory(), day("2025-01-01"), day("2025-02-01"))
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestSummarizeHistory(t *testing.T) {
	stats := SummarizeHistory(Window(sampleHistory(), day("2024-01-01"), day("2024-12-31")))
	require.Len(t, stats, 2)
	assert.Equal(t, model.Tenor("1Y"), stats[0].Tenor)

	fiveY := stats[1]
	assert.Equal(t, 4, fiveY.Count)
	assert.Equal(t, 0.040, fiveY.Min)
	assert.Equal(t, 0.045, fiveY.Max)
	assert.InDelta(t, 0.042, fiveY.Mean, 1e-12)
	assert.InDelta(t, 0.005, fiveY.Change, 1e-12)
	assert.LessOrEqual(t, fiveY.P05, fiveY.P95)
}

func TestRankScenarios(t *testing.T) {
	in := []engine.ScenarioNII{
		{Name: "Baseline", NII: 10},
		{Name: "Hike", NII: 8},
		{Name: "Cut", NII: 12},
		{Name: "Also Hike", NII: 8},
	}
	got := RankScenarios(in)

	names := []string{}
	for _, r := range got {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Hike", "Also Hike", "Baseline", "Cut"}, names)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 4, got[3].Rank)
	assert.Equal(t, "Baseline", in[0].Name, "input order untouched")
}

func TestProjectCCAR(t *testing.T) {
	rows, err := Project(ProjectionInput{
		Framework:   FrameworkCCAR,
		From:        day("2025-05-20"),
		BaseNII:     100,
		Assumptions: DefaultAssumptions(),
		Ratios:      DefaultRatioPath(),
	})
	require.NoError(t, err)
	require.Len(t, rows, 9)

	assert.Equal(t, "2025-Q2", rows[0].Period)
	assert.Equal(t, day("2025-06-30"), rows[0].PeriodEnd)
	assert.Equal(t, "2025-Q4", rows[2].Period)
	assert.Equal(t, "2026-Q1", rows[3].Period)
	assert.Equal(t, day("2026-03-31"), rows[3].PeriodEnd)
	assert.Equal(t, "2027-Q2", rows[8].Period)

	// gdp 2%, unemployment at neutral: factor 1.02
	assert.InDelta(t, 102, rows[0].NII, 1e-9)
	assert.InDelta(t, 10.2, rows[0].Provisions, 1e-9)
	assert.InDelta(t, 91.8, rows[0].PreTaxPL, 1e-9)

	assert.InDelta(t, 0.12, rows[0].CET1, 1e-12)
	assert.InDelta(t, 0.08, rows[8].CET1, 1e-12)
	assert.InDelta(t, 0.098, rows[8].Tier1, 1e-12)
	assert.InDelta(t, 84, rows[8].LCR, 1e-12)
	assert.InDelta(t, 92, rows[8].NSFR, 1e-12)
}

func TestProjectICAAP(t *testing.T) {
	rows, err := Project(ProjectionInput{
		Framework:    FrameworkICAAP,
		HorizonYears: 5,
		From:         day("2025-12-31"),
		BaseNII:      50,
		Assumptions:  Assumptions{GDPGrowthPct: -3, UnemploymentPct: 10, ProvisionRatePct: 25},
		Ratios:       DefaultRatioPath(),
	})
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "2025", rows[0].Period)
	assert.Equal(t, "2030", rows[5].Period)

	// 1 − 0.03 − 0.025
	assert.InDelta(t, 50*0.945, rows[0].NII, 1e-9)
	assert.InDelta(t, rows[0].NII*0.75, rows[0].PreTaxPL, 1e-9)
}

func TestRatioFloors(t *testing.T) {
	p := DefaultRatioPath()
	assert.Equal(t, 0.04, p.CET1.At(100))
	assert.Equal(t, 0.05, p.Tier1.At(100))
	assert.Equal(t, 50.0, p.LCR.At(100))
	assert.Equal(t, 50.0, p.NSFR.At(100))
}

func TestProjectErrors(t *testing.T) {
	_, err := Project(ProjectionInput{Framework: FrameworkICAAP, HorizonYears: 4})
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = Project(ProjectionInput{Framework: "Basel"})
	assert.ErrorIs(t, err, ErrUnknownFramework)

	_, err = ParseFramework("icaap")
	assert.NoError(t, err)
	_, err = ParseFramework("x")
	assert.ErrorIs(t, err, ErrUnknownFramework)
}
