package main

import (
	"flag"
	"fmt"
	"os"

	"nii-stress/internal/engine"
	"nii-stress/internal/model"
	"nii-stress/internal/report"
	"nii-stress/internal/scenario"
)

// Demo:
// - Build a two-line book (Loans 5Y, Deposits 1Y) on a two-point curve
// - Shock it by -100bp and show how the NII change splits by tenor
// - Run the built-in rate-shock presets over the same book
func main() {
	loans := flag.Float64("loans", 120, "Loans balance ($M, priced at 5Y)")
	deposits := flag.Float64("deposits", 130, "Deposits balance ($M, priced at 1Y)")
	rate1Y := flag.Float64("rate-1y", 0.03, "1Y yield (decimal)")
	rate5Y := flag.Float64("rate-5y", 0.04, "5Y yield (decimal)")
	shockBP := flag.Float64("shock-bp", -100, "Parallel shock in bp")
	outCSV := flag.String("out", "", "Optional path to write the waterfall CSV (e.g. results/waterfall.csv)")
	flag.Parse()

	ledger, err := model.NewLedger(
		[]model.Position{{Type: "Loans", Balance: *loans, Tenor: "5Y"}},
		[]model.Position{{Type: "Deposits", Balance: *deposits, Tenor: "1Y"}},
	)
	if err != nil {
		panic(err)
	}
	curve := model.NewYieldCurve(map[model.Tenor]float64{"1Y": *rate1Y, "5Y": *rate5Y})

	base, err := engine.ComputeNII(ledger, curve)
	if err != nil {
		panic(err)
	}
	shift := model.ParallelShift(model.BPToDecimal(*shockBP))
	stressed, err := engine.StressedNII(ledger, curve, shift)
	if err != nil {
		panic(err)
	}
	shocked, err := engine.Shock(curve, shift)
	if err != nil {
		panic(err)
	}
	steps, err := engine.Waterfall(ledger, curve, shocked)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Book: Loans=%.0f @5Y  Deposits=%.0f @1Y\n", *loans, *deposits)
	fmt.Printf("Base NII=%s  (income %s, expense %s)\n",
		report.Fixed(base.NII, 4), report.Fixed(base.Income, 4), report.Fixed(base.Expense, 4))
	fmt.Printf("Shock %+gbp -> NII=%s  delta=%s\n\n",
		*shockBP, report.Fixed(stressed.NII, 4), report.Fixed(stressed.NII-base.NII, 4))

	wf := report.WaterfallTable("NII change by tenor", steps)
	if err := report.WriteText(os.Stdout, wf, 4); err != nil {
		panic(err)
	}

	results, err := engine.Sweep(ledger, curve, scenario.DefaultRateShocks())
	if err != nil {
		panic(err)
	}
	fmt.Println()
	if err := report.WriteText(os.Stdout, report.SweepTable(results), 4); err != nil {
		panic(err)
	}

	if *outCSV != "" {
		if err := report.WriteCSVFile(*outCSV, wf); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}
