package models

// PositionPayload is one balance-sheet line ($M).
type PositionPayload struct {
	Type         string  `json:"type" binding:"required"`
	Balance      float64 `json:"balance" binding:"gte=0"`
	Tenor        string  `json:"tenor" binding:"required"`
	BusinessUnit string  `json:"business_unit,omitempty" binding:"omitempty,oneof=All Corporate Retail"`
}

type LedgerPayload struct {
	Assets      []PositionPayload `json:"assets" binding:"dive"`
	Liabilities []PositionPayload `json:"liabilities" binding:"dive"`
}

// ShiftPayload is either a parallel shift or a per-tenor shift, as decimal fractions.
type ShiftPayload struct {
	Parallel *float64           `json:"parallel,omitempty"`
	ByTenor  map[string]float64 `json:"by_tenor,omitempty"`
}

type ScenarioPayload struct {
	Name        string       `json:"name" binding:"required"`
	Shift       ShiftPayload `json:"shift"`
	Description []string     `json:"description,omitempty"`
}

// SelectionPayload picks a scenario from the registry the way the dashboard controls do.
type SelectionPayload struct {
	RateShock  string  `json:"rate_shock,omitempty"`
	CustomBP   float64 `json:"custom_bp,omitempty"`
	Regulatory string  `json:"regulatory,omitempty"`
}

// BookInputs are shared by requests that price one ledger on one curve.
// A missing curve is resolved from the server's curve source; a missing ledger is the
// configured current balance sheet.
type BookInputs struct {
	Curve        map[string]float64 `json:"curve,omitempty"`
	Ledger       *LedgerPayload     `json:"ledger,omitempty"`
	BusinessUnit string             `json:"business_unit,omitempty" binding:"omitempty,oneof=All Corporate Retail"`
	Round        bool               `json:"round,omitempty"`
}

// NIIRequest prices the book under one scenario: an explicit shift wins over a selection,
// and neither means no shock.
type NIIRequest struct {
	BookInputs
	Shift     *ShiftPayload     `json:"shift,omitempty"`
	Selection *SelectionPayload `json:"selection,omitempty"`
}

// SweepRequest runs either an explicit scenario list or a registry group.
type SweepRequest struct {
	BookInputs
	Group     string            `json:"group,omitempty" binding:"omitempty,oneof=rate_shocks regulatory"`
	Scenarios []ScenarioPayload `json:"scenarios,omitempty" binding:"dive"`
}

// WaterfallRequest compares the base curve with a scenario curve, given directly or built by
// shocking the base curve.
type WaterfallRequest struct {
	NIIRequest
	ScenarioCurve map[string]float64 `json:"scenario_curve,omitempty"`
}

// AttributionRequest compares two balance-sheet snapshots. Curves are given explicitly or
// resolved from yield history for start_date/end_date.
type AttributionRequest struct {
	StartLedger  *LedgerPayload     `json:"start_ledger,omitempty"`
	EndLedger    *LedgerPayload     `json:"end_ledger,omitempty"`
	StartCurve   map[string]float64 `json:"start_curve,omitempty"`
	EndCurve     map[string]float64 `json:"end_curve,omitempty"`
	StartDate    string             `json:"start_date,omitempty"`
	EndDate      string             `json:"end_date,omitempty"`
	BusinessUnit string             `json:"business_unit,omitempty" binding:"omitempty,oneof=All Corporate Retail"`
	Round        bool               `json:"round,omitempty"`
}

type BucketPayload struct {
	Name          string   `json:"name" binding:"required"`
	DurationYears float64  `json:"duration_years" binding:"gte=0"`
	Tenors        []string `json:"tenors"`
}

type DV01ScenarioPayload struct {
	Name    string  `json:"name" binding:"required"`
	ShiftBP float64 `json:"shift_bp"`
}

type GapRequest struct {
	Ledger        *LedgerPayload        `json:"ledger,omitempty"`
	BusinessUnit  string                `json:"business_unit,omitempty" binding:"omitempty,oneof=All Corporate Retail"`
	Buckets       []BucketPayload       `json:"buckets,omitempty" binding:"dive"`
	DV01Scenarios []DV01ScenarioPayload `json:"dv01_scenarios,omitempty" binding:"dive"`
	Round         bool                  `json:"round,omitempty"`
}

// ProjectionRequest projects NII over a CCAR or ICAAP horizon. Without base_nii the base is the
// stressed NII of the book under the given shift or selection.
type ProjectionRequest struct {
	NIIRequest
	Framework        string   `json:"framework" binding:"required"`
	HorizonYears     int      `json:"horizon_years,omitempty"`
	From             string   `json:"from,omitempty"`
	BaseNII          *float64 `json:"base_nii,omitempty"`
	GDPGrowthPct     *float64 `json:"gdp_growth_pct,omitempty"`
	UnemploymentPct  *float64 `json:"unemployment_pct,omitempty"`
	ProvisionRatePct *float64 `json:"provision_rate_pct,omitempty" binding:"omitempty,gte=0,lte=100"`
}

type HistoryQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}
