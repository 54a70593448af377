package report

import (
	"nii-stress/internal/analysis"
	"nii-stress/internal/engine"
)

func NIITable(r *engine.NIIResult) Table {
	t := Table{
		Title:  "Net Interest Income",
		Header: []string{"side", "type", "tenor", "business_unit", "balance", "rate", "amount"},
	}
	for _, p := range r.Positions {
		t.Rows = append(t.Rows, []string{
			string(p.Side),
			p.Position.Type,
			string(p.Position.Tenor),
			string(p.Position.BusinessUnit),
			fmtFloat(p.Position.Balance),
			fmtFloat(p.Rate),
			fmtFloat(p.Amount),
		})
	}
	t.Rows = append(t.Rows,
		[]string{"", "Interest Income", "", "", "", "", fmtFloat(r.Income)},
		[]string{"", "Interest Expense", "", "", "", "", fmtFloat(r.Expense)},
		[]string{"", "NII", "", "", "", "", fmtFloat(r.NII)},
	)
	return t
}

func SweepTable(results []engine.ScenarioNII) Table {
	t := Table{Title: "Scenario Sweep", Header: []string{"scenario", "nii", "delta"}}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.Name, fmtFloat(r.NII), fmtFloat(r.Delta)})
	}
	return t
}

func RankTable(ranked []analysis.RankedScenario) Table {
	t := Table{Title: "Scenarios, Worst First", Header: []string{"rank", "scenario", "nii", "delta"}}
	for _, r := range ranked {
		t.Rows = append(t.Rows, []string{itoa(r.Rank), r.Name, fmtFloat(r.NII), fmtFloat(r.Delta)})
	}
	return t
}

func WaterfallTable(title string, steps []engine.WaterfallStep) Table {
	t := Table{Title: title, Header: []string{"step", "delta", "cumulative_start", "cumulative_end"}}
	for _, s := range steps {
		t.Rows = append(t.Rows, []string{s.Label, fmtFloat(s.Delta), fmtFloat(s.CumulativeStart), fmtFloat(s.CumulativeEnd)})
	}
	return t
}

func AttributionTable(a *engine.Attribution) Table {
	t := Table{
		Title: "NII Attribution",
		Header: []string{
			"key", "start_balance", "end_balance", "start_rate", "end_rate",
			"starting_nii", "rate_variance", "volume_variance", "mix_variance", "ending_nii",
		},
	}
	for _, l := range a.Lines {
		t.Rows = append(t.Rows, []string{
			l.Key,
			fmtFloat(l.StartBalance),
			fmtFloat(l.EndBalance),
			fmtFloat(l.StartRate),
			fmtFloat(l.EndRate),
			fmtFloat(l.StartingNII),
			fmtFloat(l.RateVariance),
			fmtFloat(l.VolumeVariance),
			fmtFloat(l.MixVariance),
			fmtFloat(l.EndingNII),
		})
	}
	t.Rows = append(t.Rows, []string{
		"Total", "", "", "", "",
		fmtFloat(a.StartingNII),
		fmtFloat(a.RateVariance),
		fmtFloat(a.VolumeVariance),
		fmtFloat(a.MixVariance),
		fmtFloat(a.EndingNII),
	})
	return t
}

func GapTable(r *engine.GapReport) Table {
	t := Table{Title: "Repricing Gap", Header: []string{"bucket", "duration_years", "gap", "cumulative_gap"}}
	for _, b := range r.Buckets {
		t.Rows = append(t.Rows, []string{b.Bucket, fmtFloat(b.DurationYears), fmtFloat(b.Gap), fmtFloat(b.CumulativeGap)})
	}
	return t
}

func DV01Table(r *engine.GapReport) Table {
	t := Table{Title: "DV01 (" + r.Method + ")", Header: []string{"scenario", "bucket", "shift_bp", "dv01"}}
	for _, p := range r.DV01 {
		t.Rows = append(t.Rows, []string{p.Scenario, p.Bucket, fmtFloat(p.ShiftBP), fmtFloat(p.DV01)})
	}
	return t
}

func ProjectionTable(rows []analysis.ProjectionRow) Table {
	t := Table{
		Title:  "Regulatory Projection",
		Header: []string{"period", "period_end", "nii", "provisions", "pre_tax_pl", "cet1", "tier1", "lcr", "nsfr"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Period,
			fmtDate(r.PeriodEnd),
			fmtFloat(r.NII),
			fmtFloat(r.Provisions),
			fmtFloat(r.PreTaxPL),
			fmtFloat(r.CET1),
			fmtFloat(r.Tier1),
			fmtFloat(r.LCR),
			fmtFloat(r.NSFR),
		})
	}
	return t
}

func HistoryTable(stats []analysis.TenorStats) Table {
	t := Table{
		Title:  "Yield History",
		Header: []string{"tenor", "count", "min", "max", "mean", "p05", "p95", "first", "last", "change"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			string(s.Tenor), itoa(s.Count),
			fmtFloat(s.Min), fmtFloat(s.Max), fmtFloat(s.Mean),
			fmtFloat(s.P05), fmtFloat(s.P95),
			fmtFloat(s.First), fmtFloat(s.Last), fmtFloat(s.Change),
		})
	}
	return t
}
