package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"nii-stress/internal/analysis"
	"nii-stress/internal/config"
	"nii-stress/internal/data"
	"nii-stress/internal/engine"
	"nii-stress/internal/logging"
	"nii-stress/internal/model"
	"nii-stress/internal/report"
	"nii-stress/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "stress":
		err = cmdStress(os.Args[2:])
	case "sweep":
		err = cmdSweep(os.Args[2:])
	case "waterfall":
		err = cmdWaterfall(os.Args[2:])
	case "explain":
		err = cmdExplain(os.Args[2:])
	case "gap":
		err = cmdGap(os.Args[2:])
	case "project":
		err = cmdProject(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "scenarios":
		err = cmdScenarios(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli stress    --config examples/config.yaml [--shock 'Adverse (-100 bp)' | --shock Custom --bp -50] [--regulatory Adverse]")
	fmt.Println("  cli sweep     --config examples/config.yaml [--group rate_shocks|regulatory] --out results/sweep.csv")
	fmt.Println("  cli waterfall --config examples/config.yaml --regulatory 'Severely Adverse'")
	fmt.Println("  cli explain   --config examples/config.yaml --start 2024-01-02 --end 2024-06-28")
	fmt.Println("  cli gap       --config examples/config.yaml --bu Corporate")
	fmt.Println("  cli project   --config examples/config.yaml --framework ICAAP --horizon 5")
	fmt.Println("  cli history   --start 2024-01-01 --end 2024-12-31")
	fmt.Println("  cli scenarios --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - curves come from --curve (snapshot JSON), or FRED with --live and FRED_API_KEY, else the config fallback")
	fmt.Println("  - balances are $M; rates and shifts are decimal fractions unless suffixed bp")
	fmt.Println("  - --out writes the main table as CSV; tables always print to stdout")
}

// common are the flags every subcommand shares.
type common struct {
	cfgPath     *string
	curvePath   *string
	historyPath *string
	live        *bool
	bu          *string
	out         *string
	places      *int
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath:     fs.String("config", "", "Path to YAML config (default: built-in book and presets)"),
		curvePath:   fs.String("curve", "examples/curves/latest.json", "Path to a curve snapshot JSON"),
		historyPath: fs.String("history", "examples/curves/history.json", "Path to a yield history snapshot JSON"),
		live:        fs.Bool("live", false, "Fetch curves from FRED (needs FRED_API_KEY)"),
		bu:          fs.String("bu", "All", "Business unit: All, Corporate or Retail"),
		out:         fs.String("out", "", "Optional CSV output path"),
		places:      fs.Int("places", 2, "Decimal places for printed tables"),
	}
}

func (c common) config() (*config.Config, error) {
	if *c.cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(*c.cfgPath)
}

func (c common) source(cfg *config.Config) *data.CurveSource {
	logger := logging.NewWithWriter(logging.Config{Level: "warn", Format: "text"}, os.Stderr)
	s := &data.CurveSource{
		Series:      data.SeriesMap(cfg.Curve.Series),
		CurvePath:   *c.curvePath,
		HistoryPath: *c.historyPath,
		Fallback:    cfg.Curve.Fallback,
		Logger:      logger,
	}
	if *c.live {
		fred := data.NewFredClient(os.Getenv("FRED_API_KEY"), os.Getenv("FRED_BASE_URL"), nil)
		fred.Logger = logger
		s.Fred = fred
	}
	return s
}

func (c common) ledger(cfg *config.Config) (model.Ledger, error) {
	bu, err := model.ParseBusinessUnit(*c.bu)
	if err != nil {
		return model.Ledger{}, err
	}
	l, err := cfg.CurrentLedger()
	if err != nil {
		return model.Ledger{}, err
	}
	return l.Filter(model.ByBusinessUnit(bu)), nil
}

func (c common) book() (*config.Config, model.Ledger, model.YieldCurve, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, model.Ledger{}, model.YieldCurve{}, err
	}
	ledger, err := c.ledger(cfg)
	if err != nil {
		return nil, model.Ledger{}, model.YieldCurve{}, err
	}
	rc, err := c.source(cfg).Latest(context.Background())
	if err != nil {
		return nil, model.Ledger{}, model.YieldCurve{}, err
	}
	fmt.Printf("Curve source: %s\n", rc.Source)
	return cfg, ledger, rc.Curve, nil
}

func (c common) emit(tables ...report.Table) error {
	for _, t := range tables {
		if err := report.WriteText(os.Stdout, t, int32(*c.places)); err != nil {
			return err
		}
		fmt.Println()
	}
	if *c.out != "" && len(tables) > 0 {
		if err := report.WriteCSVFile(*c.out, tables[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(tables[0].Rows), *c.out)
	}
	return nil
}

type selectionFlags struct {
	scenario   *string
	shock      *string
	bp         *float64
	regulatory *string
}

func selectFlags(fs *flag.FlagSet) selectionFlags {
	return selectionFlags{
		scenario:   fs.String("scenario", "", "Any preset by name; overrides --shock and --regulatory"),
		shock:      fs.String("shock", "", "Rate-shock preset name, or Custom"),
		bp:         fs.Float64("bp", 0, "Custom parallel shift in bp (with --shock Custom)"),
		regulatory: fs.String("regulatory", "", "Regulatory scenario (default Baseline)"),
	}
}

func (s selectionFlags) resolve(reg *scenario.Registry) (model.Scenario, error) {
	if *s.scenario != "" {
		sc, ok := reg.Lookup(*s.scenario)
		if !ok {
			return model.Scenario{}, fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, *s.scenario)
		}
		return sc, nil
	}
	return reg.Select(scenario.Selection{RateShock: *s.shock, CustomBP: *s.bp, Regulatory: *s.regulatory})
}

func cmdStress(args []string) error {
	fs := flag.NewFlagSet("stress", flag.ExitOnError)
	c := commonFlags(fs)
	sel := selectFlags(fs)
	_ = fs.Parse(args)

	cfg, ledger, curve, err := c.book()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	sc, err := sel.resolve(reg)
	if err != nil {
		return err
	}
	base, err := engine.ComputeNII(ledger, curve)
	if err != nil {
		return err
	}
	shocked, err := engine.ApplyScenario(curve, sc)
	if err != nil {
		return err
	}
	stressed, err := engine.ComputeNII(ledger, shocked)
	if err != nil {
		return err
	}

	fmt.Printf("Scenario: %s\n", sc.Name)
	for _, d := range sc.Description {
		fmt.Printf("  - %s\n", d)
	}
	t := report.NIITable(stressed)
	t.Title = "Stressed NII ($M)"
	if err := c.emit(t); err != nil {
		return err
	}
	fmt.Printf("Base NII=%s Stressed NII=%s Delta=%s\n",
		report.Fixed(base.NII, 2), report.Fixed(stressed.NII, 2), report.Fixed(stressed.NII-base.NII, 2))
	return nil
}

func cmdSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	c := commonFlags(fs)
	group := fs.String("group", scenario.GroupRateShocks, "Scenario group: rate_shocks or regulatory")
	_ = fs.Parse(args)

	cfg, ledger, curve, err := c.book()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	scenarios, err := reg.Group(*group)
	if err != nil {
		return err
	}
	results, err := engine.Sweep(ledger, curve, scenarios)
	if err != nil {
		return err
	}
	return c.emit(report.SweepTable(results), report.RankTable(analysis.RankScenarios(results)))
}

func cmdWaterfall(args []string) error {
	fs := flag.NewFlagSet("waterfall", flag.ExitOnError)
	c := commonFlags(fs)
	sel := selectFlags(fs)
	_ = fs.Parse(args)

	cfg, ledger, curve, err := c.book()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	sc, err := sel.resolve(reg)
	if err != nil {
		return err
	}
	shocked, err := engine.ApplyScenario(curve, sc)
	if err != nil {
		return err
	}
	steps, err := engine.Waterfall(ledger, curve, shocked)
	if err != nil {
		return err
	}
	return c.emit(report.WaterfallTable("NII change by tenor: "+sc.Name, steps))
}

func cmdExplain(args []string) error {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	c := commonFlags(fs)
	start := fs.String("start", "", "Start date YYYY-MM-DD (curve from history)")
	end := fs.String("end", "", "End date YYYY-MM-DD (curve from history)")
	_ = fs.Parse(args)

	if *start == "" || *end == "" {
		return fmt.Errorf("--start and --end are required")
	}
	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	endDate, err := time.Parse(time.DateOnly, *end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	bu, err := model.ParseBusinessUnit(*c.bu)
	if err != nil {
		return err
	}
	startLedger, endLedger, err := cfg.PeriodLedgers()
	if err != nil {
		return err
	}
	keep := model.ByBusinessUnit(bu)
	startLedger, endLedger = startLedger.Filter(keep), endLedger.Filter(keep)

	hist, source, err := c.source(cfg).History(context.Background(), startDate, endDate)
	if err != nil {
		return err
	}
	period, err := analysis.PeriodCurves(hist, startDate, endDate)
	if err != nil {
		return err
	}
	fmt.Printf("History source: %s, curves of %s and %s\n", source,
		period.StartDate.Format(time.DateOnly), period.EndDate.Format(time.DateOnly))

	att, err := engine.Attribute(startLedger, endLedger, period.StartCurve, period.EndCurve)
	if err != nil {
		return err
	}
	return c.emit(report.AttributionTable(att), report.WaterfallTable("NII bridge", att.Steps()))
}

func cmdGap(args []string) error {
	fs := flag.NewFlagSet("gap", flag.ExitOnError)
	c := commonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	ledger, err := c.ledger(cfg)
	if err != nil {
		return err
	}
	scheme, err := cfg.BucketScheme()
	if err != nil {
		return err
	}
	rep, err := engine.GapAndDV01(ledger, scheme, cfg.DV01())
	if err != nil {
		return err
	}
	if err := c.emit(report.GapTable(rep), report.DV01Table(rep)); err != nil {
		return err
	}
	fmt.Printf("DV01 method: %s\n", rep.Method)
	return nil
}

func cmdProject(args []string) error {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	c := commonFlags(fs)
	sel := selectFlags(fs)
	framework := fs.String("framework", "CCAR", "CCAR or ICAAP")
	horizon := fs.Int("horizon", 3, "ICAAP horizon in years (3 or 5)")
	from := fs.String("from", "", "Anchor date YYYY-MM-DD (default today)")
	gdp := fs.Float64("gdp", 0, "GDP growth % (default from config)")
	unemployment := fs.Float64("unemployment", 0, "Unemployment % (default from config)")
	provision := fs.Float64("provision", 0, "Provision rate % of NII (default from config)")
	_ = fs.Parse(args)

	fw, err := analysis.ParseFramework(*framework)
	if err != nil {
		return err
	}
	anchor := time.Now()
	if *from != "" {
		if anchor, err = time.Parse(time.DateOnly, *from); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}

	cfg, ledger, curve, err := c.book()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	sc, err := sel.resolve(reg)
	if err != nil {
		return err
	}
	shocked, err := engine.ApplyScenario(curve, sc)
	if err != nil {
		return err
	}
	stressed, err := engine.ComputeNII(ledger, shocked)
	if err != nil {
		return err
	}

	a := cfg.Assumptions()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "gdp":
			a.GDPGrowthPct = *gdp
		case "unemployment":
			a.UnemploymentPct = *unemployment
		case "provision":
			a.ProvisionRatePct = *provision
		}
	})

	rows, err := analysis.Project(analysis.ProjectionInput{
		Framework:    fw,
		HorizonYears: *horizon,
		From:         anchor,
		BaseNII:      stressed.NII,
		Assumptions:  a,
		Ratios:       analysis.DefaultRatioPath(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s projection, scenario %s, base NII=%s\n", fw, sc.Name, report.Fixed(stressed.NII, 2))
	return c.emit(report.ProjectionTable(rows))
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	c := commonFlags(fs)
	start := fs.String("start", "", "Start date YYYY-MM-DD")
	end := fs.String("end", "", "End date YYYY-MM-DD")
	_ = fs.Parse(args)

	if *start == "" || *end == "" {
		return fmt.Errorf("--start and --end are required")
	}
	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	endDate, err := time.Parse(time.DateOnly, *end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	hist, source, err := c.source(cfg).History(context.Background(), startDate, endDate)
	if err != nil {
		return err
	}
	hist = analysis.Window(hist, startDate, endDate)
	fmt.Printf("History source: %s, %d observations\n", source, len(hist))
	return c.emit(report.HistoryTable(analysis.SummarizeHistory(hist)))
}

func cmdScenarios(args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	c := commonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	for _, group := range []string{scenario.GroupRateShocks, scenario.GroupRegulatory} {
		ss, _ := reg.Group(group)
		fmt.Printf("%s:\n", group)
		for _, s := range ss {
			fmt.Printf("  %-28s %s\n", s.Name, describeShift(s.Shift))
			for _, d := range s.Description {
				fmt.Printf("  %-28s - %s\n", "", d)
			}
		}
	}
	fmt.Printf("custom: %d..%d bp in steps of %d\n", scenario.MinCustomBP, scenario.MaxCustomBP, scenario.CustomStepBP)
	return nil
}

func describeShift(s model.Shift) string {
	if !s.IsPerTenor() {
		return fmt.Sprintf("parallel %+g bp", s.Parallel*10000)
	}
	tenors := make([]model.Tenor, 0, len(s.ByTenor))
	for t := range s.ByTenor {
		tenors = append(tenors, t)
	}
	parts := make([]string, 0, len(tenors))
	for _, t := range model.SortTenors(tenors) {
		parts = append(parts, fmt.Sprintf("%s %+g bp", t, s.ByTenor[t]*10000))
	}
	return strings.Join(parts, ", ")
}
