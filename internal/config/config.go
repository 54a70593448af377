package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nii-stress/internal/analysis"
	"nii-stress/internal/model"
	"nii-stress/internal/scenario"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Curve CurveConfig `yaml:"curve"`

	RateShocks []ScenarioConfig `yaml:"rate_shocks"`
	Regulatory []ScenarioConfig `yaml:"regulatory"`

	// Optional: load balance sheets from a separate YAML.
	// Sheets given inline in BalanceSheet override the file's.
	BalanceSheetFile string        `yaml:"balance_sheet_file"`
	BalanceSheet     BalanceSheets `yaml:"balance_sheet"`

	Buckets       []BucketConfig   `yaml:"buckets"`
	DV01Scenarios []DV01Config     `yaml:"dv01_scenarios"`
	Projection    ProjectionConfig `yaml:"projection"`
}

type CurveConfig struct {
	// Series maps tenors to FRED series ids.
	Series map[model.Tenor]string `yaml:"series"`
	// Fallback is served when no live or file curve is available.
	Fallback map[model.Tenor]float64 `yaml:"fallback"`
}

type ScenarioConfig struct {
	Name        string     `yaml:"name"`
	Shift       ShiftValue `yaml:"shift"`
	Description []string   `yaml:"description"`
}

type PositionConfig struct {
	Type         string  `yaml:"type"`
	Balance      float64 `yaml:"balance"`
	Tenor        string  `yaml:"tenor"`
	BusinessUnit string  `yaml:"business_unit"`
}

type LedgerConfig struct {
	Assets      []PositionConfig `yaml:"assets"`
	Liabilities []PositionConfig `yaml:"liabilities"`
}

func (l LedgerConfig) IsZero() bool {
	return len(l.Assets) == 0 && len(l.Liabilities) == 0
}

// BalanceSheets holds the current book and the two snapshots compared by attribution.
type BalanceSheets struct {
	Current LedgerConfig `yaml:"current"`
	Start   LedgerConfig `yaml:"start"`
	End     LedgerConfig `yaml:"end"`
}

type BucketConfig struct {
	Name          string   `yaml:"name"`
	DurationYears float64  `yaml:"duration_years"`
	Tenors        []string `yaml:"tenors"`
}

type DV01Config struct {
	Name    string  `yaml:"name"`
	ShiftBP float64 `yaml:"shift_bp"`
}

type ProjectionConfig struct {
	GDPGrowthPct     *float64 `yaml:"gdp_growth_pct"`
	UnemploymentPct  *float64 `yaml:"unemployment_pct"`
	ProvisionRatePct *float64 `yaml:"provision_rate_pct"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.BalanceSheetFile != "" {
		sheetPath := c.BalanceSheetFile
		if !filepath.IsAbs(sheetPath) {
			// Relative to the config file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), sheetPath)
			if _, err := os.Stat(cand); err == nil {
				sheetPath = cand
			}
		}
		loaded, err := loadBalanceSheetFile(sheetPath)
		if err != nil {
			return nil, err
		}
		c.BalanceSheet = MergeBalanceSheets(loaded, c.BalanceSheet)
	}
	return &c, nil
}

// Default is the built-in configuration: the default Treasury series, presets and buckets,
// an illustrative balance sheet, and a fallback curve so it resolves offline.
func Default() *Config {
	c := &Config{
		Curve:        CurveConfig{Fallback: DefaultFallbackCurve()},
		BalanceSheet: DefaultBalanceSheets(),
	}
	c.applyDefaults()
	return c
}

// DefaultFallbackCurve is the illustrative curve shipped in examples/config.yaml.
func DefaultFallbackCurve() map[model.Tenor]float64 {
	return map[model.Tenor]float64{"3M": 0.0432, "1Y": 0.0405, "5Y": 0.0398, "10Y": 0.0421}
}

func (c *Config) applyDefaults() {
	if len(c.Curve.Series) == 0 {
		c.Curve.Series = map[model.Tenor]string{"3M": "GS3M", "1Y": "GS1", "5Y": "GS5", "10Y": "GS10"}
	}
	if len(c.RateShocks) == 0 {
		c.RateShocks = fromScenarios(scenario.DefaultRateShocks())
	}
	if len(c.Regulatory) == 0 {
		c.Regulatory = fromScenarios(scenario.DefaultRegulatory())
	}
	if len(c.Buckets) == 0 {
		c.Buckets = []BucketConfig{
			{Name: "0-3M", DurationYears: 0.25, Tenors: []string{"3M"}},
			{Name: "3-12M", DurationYears: 0.75, Tenors: []string{"1Y"}},
			{Name: "1-5Y", DurationYears: 3.0, Tenors: []string{"5Y"}},
			{Name: "5Y+", DurationYears: 7.5, Tenors: []string{"10Y"}},
		}
	}
	if len(c.DV01Scenarios) == 0 {
		for _, s := range scenario.DefaultDV01Scenarios() {
			c.DV01Scenarios = append(c.DV01Scenarios, DV01Config{Name: s.Name, ShiftBP: s.ShiftBP})
		}
	}
	d := analysis.DefaultAssumptions()
	if c.Projection.GDPGrowthPct == nil {
		c.Projection.GDPGrowthPct = &d.GDPGrowthPct
	}
	if c.Projection.UnemploymentPct == nil {
		c.Projection.UnemploymentPct = &d.UnemploymentPct
	}
	if c.Projection.ProvisionRatePct == nil {
		c.Projection.ProvisionRatePct = &d.ProvisionRatePct
	}
}

func fromScenarios(ss []model.Scenario) []ScenarioConfig {
	out := make([]ScenarioConfig, 0, len(ss))
	for _, s := range ss {
		out = append(out, ScenarioConfig{Name: s.Name, Shift: ShiftValue{Shift: s.Shift}, Description: s.Description})
	}
	return out
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.BalanceSheet.Current.IsZero() {
		return errors.New("balance_sheet.current is required")
	}
	for name, l := range map[string]LedgerConfig{
		"current": c.BalanceSheet.Current,
		"start":   c.BalanceSheet.Start,
		"end":     c.BalanceSheet.End,
	} {
		if _, err := l.ToLedger(); err != nil {
			return fmt.Errorf("balance_sheet.%s invalid: %w", name, err)
		}
	}
	if c.BalanceSheet.Start.IsZero() != c.BalanceSheet.End.IsZero() {
		return errors.New("balance_sheet.start and balance_sheet.end must be given together")
	}

	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("scenarios invalid: %w", err)
	}
	if len(c.Curve.Series) > 0 {
		for _, s := range c.Regulatory {
			for t := range s.Shift.ByTenor {
				if _, ok := c.Curve.Series[t]; !ok {
					return fmt.Errorf("regulatory %q shifts tenor %s which is not in curve.series", s.Name, t)
				}
			}
		}
	}
	if _, err := c.BucketScheme(); err != nil {
		return fmt.Errorf("buckets invalid: %w", err)
	}
	for _, s := range c.DV01Scenarios {
		if s.Name == "" {
			return errors.New("dv01_scenarios: name is required")
		}
	}
	if p := c.Projection.ProvisionRatePct; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("projection.provision_rate_pct must be within [0, 100], got %g", *p)
	}
	return nil
}

// ToLedger validates the positions and builds a model.Ledger.
func (l LedgerConfig) ToLedger() (model.Ledger, error) {
	assets, err := toPositions(l.Assets)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("assets: %w", err)
	}
	liabs, err := toPositions(l.Liabilities)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("liabilities: %w", err)
	}
	return model.NewLedger(assets, liabs)
}

func toPositions(ps []PositionConfig) ([]model.Position, error) {
	out := make([]model.Position, 0, len(ps))
	for i, p := range ps {
		bu, err := model.ParseBusinessUnit(p.BusinessUnit)
		if err != nil {
			return nil, fmt.Errorf("[%d] %s: %w", i, p.Type, err)
		}
		out = append(out, model.Position{
			Type:         p.Type,
			Balance:      p.Balance,
			Tenor:        model.Tenor(p.Tenor),
			BusinessUnit: bu,
		})
	}
	return out, nil
}

func (c *Config) CurrentLedger() (model.Ledger, error) { return c.BalanceSheet.Current.ToLedger() }

// PeriodLedgers returns the start and end snapshots for attribution.
func (c *Config) PeriodLedgers() (start, end model.Ledger, err error) {
	if c.BalanceSheet.Start.IsZero() {
		return model.Ledger{}, model.Ledger{}, errors.New("balance_sheet.start/end are not configured")
	}
	if start, err = c.BalanceSheet.Start.ToLedger(); err != nil {
		return
	}
	end, err = c.BalanceSheet.End.ToLedger()
	return
}

func (c *Config) Registry() (*scenario.Registry, error) {
	return scenario.New(toScenarios(c.RateShocks), toScenarios(c.Regulatory))
}

func toScenarios(cs []ScenarioConfig) []model.Scenario {
	out := make([]model.Scenario, 0, len(cs))
	for _, s := range cs {
		out = append(out, model.Scenario{Name: s.Name, Shift: s.Shift.Shift, Description: s.Description})
	}
	return out
}

// BucketScheme builds and validates the configured bucket scheme.
func (c *Config) BucketScheme() (model.BucketScheme, error) {
	var s model.BucketScheme
	for _, b := range c.Buckets {
		s.Buckets = append(s.Buckets, model.Bucket{Name: b.Name, DurationYears: b.DurationYears})
		for _, t := range b.Tenors {
			if err := s.Map(model.Tenor(t), b.Name); err != nil {
				return model.BucketScheme{}, err
			}
		}
	}
	if err := s.Validate(); err != nil {
		return model.BucketScheme{}, err
	}
	return s, nil
}

func (c *Config) DV01() []model.DV01Scenario {
	out := make([]model.DV01Scenario, 0, len(c.DV01Scenarios))
	for _, s := range c.DV01Scenarios {
		out = append(out, model.DV01Scenario{Name: s.Name, ShiftBP: s.ShiftBP})
	}
	return out
}

// FallbackCurve returns the configured fallback curve, if any.
func (c *Config) FallbackCurve() (model.YieldCurve, bool) {
	if len(c.Curve.Fallback) == 0 {
		return model.YieldCurve{}, false
	}
	return model.NewYieldCurve(c.Curve.Fallback), true
}

func (c *Config) Assumptions() analysis.Assumptions {
	a := analysis.DefaultAssumptions()
	if p := c.Projection.GDPGrowthPct; p != nil {
		a.GDPGrowthPct = *p
	}
	if p := c.Projection.UnemploymentPct; p != nil {
		a.UnemploymentPct = *p
	}
	if p := c.Projection.ProvisionRatePct; p != nil {
		a.ProvisionRatePct = *p
	}
	return a
}

type balanceSheetFileWrapper struct {
	BalanceSheet BalanceSheets `yaml:"balance_sheet"`
}

func loadBalanceSheetFile(path string) (BalanceSheets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BalanceSheets{}, err
	}
	var w balanceSheetFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BalanceSheets{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.BalanceSheet, nil
}

// MergeBalanceSheets overlays each non-empty sheet of override onto base.
func MergeBalanceSheets(base, override BalanceSheets) BalanceSheets {
	out := base
	if !override.Current.IsZero() {
		out.Current = override.Current
	}
	if !override.Start.IsZero() {
		out.Start = override.Start
	}
	if !override.End.IsZero() {
		out.End = override.End
	}
	return out
}
