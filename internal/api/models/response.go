package models

type PositionNII struct {
	Side         string  `json:"side"`
	Type         string  `json:"type"`
	Tenor        string  `json:"tenor"`
	BusinessUnit string  `json:"business_unit,omitempty"`
	Balance      float64 `json:"balance"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
}

type NIIResponse struct {
	Scenario         string        `json:"scenario"`
	Description      []string      `json:"description,omitempty"`
	CurveSource      string        `json:"curve_source"`
	Income           float64       `json:"income"`
	Expense          float64       `json:"expense"`
	NII              float64       `json:"nii"`
	BaseNII          float64       `json:"base_nii"`
	Delta            float64       `json:"delta"`
	TotalAssets      float64       `json:"total_assets"`
	TotalLiabilities float64       `json:"total_liabilities"`
	Positions        []PositionNII `json:"positions"`
}

type ScenarioResult struct {
	Name  string  `json:"name"`
	NII   float64 `json:"nii"`
	Delta float64 `json:"delta"`
	Rank  int     `json:"rank,omitempty"`
}

type SweepResponse struct {
	CurveSource string           `json:"curve_source"`
	BaseNII     float64          `json:"base_nii"`
	Results     []ScenarioResult `json:"results"`
	// Ranked holds the same results, worst NII first.
	Ranked []ScenarioResult `json:"ranked"`
}

type WaterfallStep struct {
	Label           string  `json:"label"`
	Delta           float64 `json:"delta"`
	CumulativeStart float64 `json:"cumulative_start"`
	CumulativeEnd   float64 `json:"cumulative_end"`
}

type WaterfallResponse struct {
	Scenario    string          `json:"scenario"`
	CurveSource string          `json:"curve_source"`
	Steps       []WaterfallStep `json:"steps"`
	Total       float64         `json:"total"`
}

type AttributionLine struct {
	Key            string  `json:"key"`
	StartBalance   float64 `json:"start_balance"`
	EndBalance     float64 `json:"end_balance"`
	StartRate      float64 `json:"start_rate"`
	EndRate        float64 `json:"end_rate"`
	StartingNII    float64 `json:"starting_nii"`
	RateVariance   float64 `json:"rate_variance"`
	VolumeVariance float64 `json:"volume_variance"`
	MixVariance    float64 `json:"mix_variance"`
	EndingNII      float64 `json:"ending_nii"`
}

type AttributionResponse struct {
	StartDate      string            `json:"start_date,omitempty"`
	EndDate        string            `json:"end_date,omitempty"`
	BusinessUnit   string            `json:"business_unit,omitempty"`
	StartingNII    float64           `json:"starting_nii"`
	RateVariance   float64           `json:"rate_variance"`
	VolumeVariance float64           `json:"volume_variance"`
	MixVariance    float64           `json:"mix_variance"`
	EndingNII      float64           `json:"ending_nii"`
	Residual       float64           `json:"residual"`
	Steps          []WaterfallStep   `json:"steps"`
	Lines          []AttributionLine `json:"lines"`
}

type BucketGap struct {
	Bucket        string  `json:"bucket"`
	DurationYears float64 `json:"duration_years"`
	Gap           float64 `json:"gap"`
	CumulativeGap float64 `json:"cumulative_gap"`
}

type DV01Point struct {
	Scenario string  `json:"scenario"`
	Bucket   string  `json:"bucket"`
	ShiftBP  float64 `json:"shift_bp"`
	DV01     float64 `json:"dv01"`
}

type GapResponse struct {
	Buckets []BucketGap `json:"buckets"`
	DV01    []DV01Point `json:"dv01"`
	Method  string      `json:"method"`
}

type ProjectionRow struct {
	Period     string  `json:"period"`
	PeriodEnd  string  `json:"period_end"`
	NII        float64 `json:"nii"`
	Provisions float64 `json:"provisions"`
	PreTaxPL   float64 `json:"pre_tax_pl"`
	CET1       float64 `json:"cet1_ratio"`
	Tier1      float64 `json:"tier1_ratio"`
	LCR        float64 `json:"lcr_pct"`
	NSFR       float64 `json:"nsfr_pct"`
}

type ProjectionResponse struct {
	Framework string          `json:"framework"`
	BaseNII   float64         `json:"base_nii"`
	Rows      []ProjectionRow `json:"rows"`
}

type ScenarioInfo struct {
	Name        string             `json:"name"`
	Parallel    *float64           `json:"parallel,omitempty"`
	ByTenor     map[string]float64 `json:"by_tenor,omitempty"`
	Description []string           `json:"description,omitempty"`
}

type CustomShiftInfo struct {
	MinBP  int `json:"min_bp"`
	MaxBP  int `json:"max_bp"`
	StepBP int `json:"step_bp"`
}

type ScenariosResponse struct {
	RateShocks    []ScenarioInfo  `json:"rate_shocks"`
	Regulatory    []ScenarioInfo  `json:"regulatory"`
	DV01Scenarios []DV01Point     `json:"dv01_scenarios"`
	Custom        CustomShiftInfo `json:"custom"`
}

type CurveResponse struct {
	Source string             `json:"source"`
	Rates  map[string]float64 `json:"rates"`
	Tenors []string           `json:"tenors"`
}

type Observation struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

type TenorStats struct {
	Tenor  string  `json:"tenor"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
	First  float64 `json:"first"`
	Last   float64 `json:"last"`
	Change float64 `json:"change"`
}

type HistoryResponse struct {
	Source       string        `json:"source"`
	Observations []Observation `json:"observations"`
	Stats        []TenorStats  `json:"stats"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
