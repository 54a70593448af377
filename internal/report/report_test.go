package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nii-stress/internal/engine"
	"nii-stress/internal/model"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 0.1, Round(0.1000000000000001, 2))
	assert.Equal(t, 1.01, Round(1.005, 2))
	assert.Equal(t, -2.35, Round(-2.345, 2))
	assert.Equal(t, "0.90", Fixed(0.9, 2))
}

func sweep() []engine.ScenarioNII {
	return []engine.ScenarioNII{
		{Name: "Baseline (0 bp)", NII: 0.9, Delta: 0},
		{Name: "Adverse (-100 bp)", NII: 1.0, Delta: 0.1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, SweepTable(sweep())))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"scenario", "nii", "delta"}, recs[0])
	assert.Equal(t, []string{"Adverse (-100 bp)", "1.000000", "0.100000"}, recs[2])
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.csv")
	require.NoError(t, WriteCSVFile(path, SweepTable(sweep())))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "scenario,nii,delta\n"))
}

func TestWriteTextRoundsNumbers(t *testing.T) {
	steps := engine.Chain([]string{"Baseline", "1Y", "5Y", "Total"}, []float64{0, 1.3, -1.2, 0.1})
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, WaterfallTable("Waterfall", steps), 2))

	out := buf.String()
	assert.Contains(t, out, "Waterfall\n=========")
	assert.Contains(t, out, "-1.20")
	assert.Contains(t, out, "Baseline")
	assert.NotContains(t, out, "1.300000")
}

func TestNIITableTotals(t *testing.T) {
	ledger := model.Ledger{
		Assets:      []model.Position{{Type: "Loans", Balance: 120, Tenor: "5Y"}},
		Liabilities: []model.Position{{Type: "Deposits", Balance: 130, Tenor: "1Y"}},
	}
	r, err := engine.ComputeNII(ledger, model.NewYieldCurve(map[model.Tenor]float64{"1Y": 0.03, "5Y": 0.04}))
	require.NoError(t, err)

	tbl := NIITable(r)
	require.Len(t, tbl.Rows, 5)
	last := tbl.Rows[4]
	assert.Equal(t, "NII", last[1])
	assert.Equal(t, "0.900000", last[6])
}

func TestGapAndDV01Tables(t *testing.T) {
	rep := &engine.GapReport{
		Buckets: []engine.BucketGap{{Bucket: "0-3M", DurationYears: 0.25, Gap: -20, CumulativeGap: -20}},
		DV01:    []engine.DV01Point{{Scenario: "Adverse", Bucket: "0-3M", ShiftBP: -100, DV01: 500}},
		Method:  engine.DV01Method,
	}
	g := GapTable(rep)
	assert.Equal(t, "-20.000000", g.Rows[0][2])
	d := DV01Table(rep)
	assert.Contains(t, d.Title, "linear approximation")
	assert.Equal(t, "500.000000", d.Rows[0][3])
}
