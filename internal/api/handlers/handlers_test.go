package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nii-stress/internal/api/handlers"
	"nii-stress/internal/api/models"
	"nii-stress/internal/config"
	"nii-stress/internal/data"
	"nii-stress/internal/metrics"
	"nii-stress/internal/model"
)

const tol = 1e-9

var bankRates = map[model.Tenor]float64{"3M": 0.0432, "1Y": 0.0405, "5Y": 0.0398, "10Y": 0.0421}

func date(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	shifted := map[model.Tenor]float64{}
	for k, v := range bankRates {
		shifted[k] = v + 0.01
	}
	historyPath := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, data.SaveSnapshot(data.NewHistorySnapshot(model.History{
		{Date: date("2024-01-02"), Rates: bankRates},
		{Date: date("2024-03-28"), Rates: bankRates},
		{Date: date("2024-06-28"), Rates: shifted},
	}, nil), historyPath))

	env, err := handlers.NewEnv(config.Default(), &data.CurveSource{
		Fallback:    bankRates,
		HistoryPath: historyPath,
	}, metrics.New())
	require.NoError(t, err)
	env.Now = func() time.Time { return date("2026-01-15") }

	stress := handlers.NewStressHandler(env)
	attribution := handlers.NewAttributionHandler(env)
	gap := handlers.NewGapHandler(env)
	projection := handlers.NewProjectionHandler(env)
	scenarios := handlers.NewScenarioHandler(env)
	curves := handlers.NewCurveHandler(env)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/nii", stress.ComputeNII)
	api.POST("/sweep", stress.Sweep)
	api.POST("/waterfall", stress.Waterfall)
	api.POST("/attribution", attribution.Attribute)
	api.POST("/gap", gap.GapAndDV01)
	api.POST("/projection", projection.Project)
	api.GET("/scenarios", scenarios.ListScenarios)
	api.GET("/curve", curves.Current)
	api.GET("/curve/history", curves.History)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[models.ErrorResponse](t, w).Error.Code
}

func TestComputeNII_ExplicitBook(t *testing.T) {
	router := setupRouter(t)
	parallel := -0.01
	w := do(t, router, http.MethodPost, "/api/v1/nii", map[string]any{
		"curve": map[string]float64{"1Y": 0.03, "5Y": 0.04},
		"ledger": map[string]any{
			"assets":      []map[string]any{{"type": "Loans", "balance": 120, "tenor": "5Y"}},
			"liabilities": []map[string]any{{"type": "Deposits", "balance": 130, "tenor": "1Y"}},
		},
		"shift": map[string]any{"parallel": parallel},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.NIIResponse](t, w)
	assert.Equal(t, "request", resp.CurveSource)
	assert.InDelta(t, 0.9, resp.BaseNII, tol)
	assert.InDelta(t, 1.0, resp.NII, tol)
	assert.InDelta(t, 0.1, resp.Delta, tol)
	require.Len(t, resp.Positions, 2)
	assert.Equal(t, "ASSET", resp.Positions[0].Side)
	assert.InDelta(t, 0.03, resp.Positions[0].Rate, tol)
}

func TestComputeNII_ConfiguredBookAndSelection(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/nii", map[string]any{
		"selection": map[string]any{"rate_shock": "Adverse (-100 bp)"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.NIIResponse](t, w)
	assert.Equal(t, "Adverse (-100 bp)", resp.Scenario)
	assert.Equal(t, data.SourceConfig, resp.CurveSource)
	assert.InDelta(t, 2.015, resp.BaseNII, tol)
	assert.InDelta(t, 1.515, resp.NII, tol)
	assert.InDelta(t, 240, resp.TotalAssets, tol)
	assert.InDelta(t, 190, resp.TotalLiabilities, tol)
}

func TestComputeNII_BusinessUnitAndRounding(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/nii", map[string]any{
		"business_unit": "Retail",
		"round":         true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.NIIResponse](t, w)
	require.Len(t, resp.Positions, 1)
	assert.Equal(t, "Deposits", resp.Positions[0].Type)
	assert.Equal(t, -5.27, resp.NII)
	assert.Equal(t, 0.0, resp.TotalAssets)
}

func TestComputeNII_Errors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{
			name:   "malformed json",
			body:   "{not json",
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name:   "missing tenor rate",
			body:   map[string]any{"curve": map[string]float64{"3M": 0.04, "1Y": 0.04, "5Y": 0.04}},
			status: http.StatusUnprocessableEntity,
			code:   "MISSING_TENOR_RATE",
		},
		{
			name:   "custom shift off step",
			body:   map[string]any{"selection": map[string]any{"rate_shock": "Custom", "custom_bp": 30}},
			status: http.StatusBadRequest,
			code:   "INVALID_SCENARIO",
		},
		{
			name:   "unknown regulatory scenario",
			body:   map[string]any{"selection": map[string]any{"regulatory": "Apocalypse"}},
			status: http.StatusBadRequest,
			code:   "INVALID_SCENARIO",
		},
		{
			name:   "shift naming an unknown tenor",
			body:   map[string]any{"shift": map[string]any{"by_tenor": map[string]float64{"30Y": 0.01}}},
			status: http.StatusBadRequest,
			code:   "INVALID_SCENARIO",
		},
		{
			name: "negative balance",
			body: map[string]any{"ledger": map[string]any{
				"assets": []map[string]any{{"type": "Loans", "balance": -1, "tenor": "5Y"}},
			}},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/nii", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestSweep_DefaultGroupWithRanking(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/sweep", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SweepResponse](t, w)
	require.Len(t, resp.Results, 5)
	assert.Equal(t, "Baseline (0 bp)", resp.Results[0].Name)
	wantDeltas := []float64{0, -0.5, -1.25, 0.5, 1.0}
	for i, r := range resp.Results {
		assert.InDelta(t, wantDeltas[i], r.Delta, tol, r.Name)
	}

	require.Len(t, resp.Ranked, 5)
	assert.Equal(t, "Severely Adverse (-250 bp)", resp.Ranked[0].Name)
	assert.Equal(t, 1, resp.Ranked[0].Rank)
	assert.Equal(t, "Extreme Hike (+200 bp)", resp.Ranked[4].Name)
}

func TestSweep_ExplicitScenariosWin(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/sweep", map[string]any{
		"group": "regulatory",
		"scenarios": []map[string]any{
			{"name": "Up 50", "shift": map[string]any{"parallel": 0.005}},
			{"name": "Twist", "shift": map[string]any{"by_tenor": map[string]float64{"3M": 0.01, "10Y": -0.01}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SweepResponse](t, w)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Up 50", resp.Results[0].Name)
	assert.InDelta(t, 0.25, resp.Results[0].Delta, tol)
	// 3M nets to -20, 10Y holds 80 of assets
	assert.InDelta(t, -0.2-0.8, resp.Results[1].Delta, tol)
}

func TestWaterfall_RegulatorySelection(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/waterfall", map[string]any{
		"selection": map[string]any{"regulatory": "Adverse"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.WaterfallResponse](t, w)
	assert.Equal(t, "Adverse", resp.Scenario)
	labels := make([]string, 0, len(resp.Steps))
	for _, s := range resp.Steps {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"Baseline", "3M", "1Y", "5Y", "10Y", "Total"}, labels)
	assert.InDelta(t, 0.2, resp.Steps[1].Delta, tol)
	assert.InDelta(t, 1.3, resp.Steps[2].Delta, tol)
	assert.InDelta(t, -1.2, resp.Steps[3].Delta, tol)
	assert.InDelta(t, -0.8, resp.Steps[4].Delta, tol)
	assert.InDelta(t, -0.5, resp.Total, tol)
}

func TestWaterfall_ScenarioCurve(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/waterfall", map[string]any{
		"curve":          map[string]float64{"1Y": 0.03, "5Y": 0.04},
		"scenario_curve": map[string]float64{"1Y": 0.02, "5Y": 0.03},
		"ledger": map[string]any{
			"assets":      []map[string]any{{"type": "Loans", "balance": 120, "tenor": "5Y"}},
			"liabilities": []map[string]any{{"type": "Deposits", "balance": 130, "tenor": "1Y"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.WaterfallResponse](t, w)
	require.Len(t, resp.Steps, 4)
	assert.InDelta(t, 0.1, resp.Total, tol)
}

func TestAttribution_ConfiguredLedgersExplicitCurves(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/attribution", map[string]any{
		"start_curve": bankRates,
		"end_curve":   bankRates,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.AttributionResponse](t, w)
	assert.InDelta(t, 1.608, resp.StartingNII, tol)
	assert.InDelta(t, 0, resp.RateVariance, tol)
	assert.InDelta(t, 0.407, resp.VolumeVariance, tol)
	assert.InDelta(t, 0, resp.MixVariance, tol)
	assert.InDelta(t, 2.015, resp.EndingNII, tol)
	assert.InDelta(t, 0, resp.Residual, 1e-12)
	assert.Len(t, resp.Steps, 4)
	assert.Len(t, resp.Lines, 6)
}

func TestAttribution_CurvesFromHistory(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/attribution", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-06-30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.AttributionResponse](t, w)
	assert.Equal(t, "2024-01-02", resp.StartDate)
	assert.Equal(t, "2024-06-28", resp.EndDate)
	assert.InDelta(t, 1.608, resp.StartingNII, tol)
	assert.InDelta(t, 0.4, resp.RateVariance, tol)
	assert.InDelta(t, 0.407, resp.VolumeVariance, tol)
	assert.InDelta(t, 0.1, resp.MixVariance, tol)
	assert.InDelta(t, 2.515, resp.EndingNII, tol)
}

func TestAttribution_Errors(t *testing.T) {
	router := setupRouter(t)
	ledger := map[string]any{
		"assets": []map[string]any{{"type": "Cash", "balance": 10, "tenor": "3M"}},
	}

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "one ledger only",
			body:   map[string]any{"start_ledger": ledger, "start_curve": bankRates, "end_curve": bankRates},
			status: http.StatusBadRequest,
			code:   "INVALID_LEDGER",
		},
		{
			name:   "no curves",
			body:   map[string]any{},
			status: http.StatusBadRequest,
			code:   "MISSING_CURVES",
		},
		{
			name:   "inverted window",
			body:   map[string]any{"start_date": "2024-06-30", "end_date": "2024-01-01"},
			status: http.StatusBadRequest,
			code:   "INVALID_DATE_RANGE",
		},
		{
			name:   "empty window",
			body:   map[string]any{"start_date": "2023-01-01", "end_date": "2023-06-30"},
			status: http.StatusBadRequest,
			code:   "INVALID_DATE_RANGE",
		},
		{
			name:   "bad date",
			body:   map[string]any{"start_date": "01/01/2024", "end_date": "2024-06-30"},
			status: http.StatusBadRequest,
			code:   "INVALID_DATE",
		},
		{
			name: "mismatched ledgers",
			body: map[string]any{
				"start_ledger": ledger,
				"end_ledger": map[string]any{
					"liabilities": []map[string]any{{"type": "Repo", "balance": 10, "tenor": "3M"}},
				},
				"start_curve": bankRates,
				"end_curve":   bankRates,
			},
			status: http.StatusUnprocessableEntity,
			code:   "MISMATCHED_LEDGERS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/attribution", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestGap_ConfiguredBuckets(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/gap", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.GapResponse](t, w)
	require.Len(t, resp.Buckets, 4)
	gaps := map[string]float64{}
	for _, b := range resp.Buckets {
		gaps[b.Bucket] = b.Gap
	}
	assert.Equal(t, map[string]float64{"0-3M": -20, "3-12M": -130, "1-5Y": 120, "5Y+": 80}, gaps)
	assert.InDelta(t, 50, resp.Buckets[3].CumulativeGap, tol)

	require.Len(t, resp.DV01, 12)
	adverse := resp.DV01[4+2]
	assert.Equal(t, "Adverse", adverse.Scenario)
	assert.Equal(t, "1-5Y", adverse.Bucket)
	assert.InDelta(t, 120*3.0*-100, adverse.DV01, tol)
	assert.NotEmpty(t, resp.Method)
}

func TestGap_RequestBuckets(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/gap", map[string]any{
		"buckets": []map[string]any{
			{"name": "Short", "duration_years": 0.5, "tenors": []string{"3M", "1Y"}},
			{"name": "Long", "duration_years": 6, "tenors": []string{"5Y", "10Y"}},
		},
		"dv01_scenarios": []map[string]any{{"name": "+1bp", "shift_bp": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.GapResponse](t, w)
	require.Len(t, resp.Buckets, 2)
	assert.InDelta(t, -150, resp.Buckets[0].Gap, tol)
	assert.InDelta(t, 200, resp.Buckets[1].Gap, tol)
	require.Len(t, resp.DV01, 2)
	assert.InDelta(t, 1200, resp.DV01[1].DV01, tol)

	w = do(t, router, http.MethodPost, "/api/v1/gap", map[string]any{
		"buckets": []map[string]any{{"name": "Short", "duration_years": 0.5, "tenors": []string{"3M"}}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "UNMAPPED_TENOR", errorCode(t, w))

	w = do(t, router, http.MethodPost, "/api/v1/gap", map[string]any{
		"buckets": []map[string]any{
			{"name": "Short", "duration_years": 0.5, "tenors": []string{"3M", "1Y", "5Y"}},
			{"name": "Long", "duration_years": 6, "tenors": []string{"5Y", "10Y"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "INVALID_BUCKETS", errorCode(t, w))
	assert.Contains(t, w.Body.String(), "mapped to both")
}

func TestProjection(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/projection", map[string]any{
		"framework": "CCAR",
		"base_nii":  100,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.ProjectionResponse](t, w)
	require.Len(t, resp.Rows, 9)
	assert.Equal(t, "2026-Q1", resp.Rows[0].Period)
	assert.Equal(t, "2026-03-31", resp.Rows[0].PeriodEnd)
	assert.InDelta(t, 102, resp.Rows[0].NII, tol)
	assert.InDelta(t, 10.2, resp.Rows[0].Provisions, tol)
	assert.InDelta(t, 91.8, resp.Rows[0].PreTaxPL, tol)

	w = do(t, router, http.MethodPost, "/api/v1/projection", map[string]any{
		"framework":        "ICAAP",
		"horizon_years":    3,
		"gdp_growth_pct":   0,
		"unemployment_pct": 5,
		"selection":        map[string]any{"rate_shock": "Adverse (-100 bp)"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[models.ProjectionResponse](t, w)
	require.Len(t, resp.Rows, 4)
	assert.InDelta(t, 1.515, resp.BaseNII, tol)
	assert.InDelta(t, 1.515, resp.Rows[0].NII, tol)

	w = do(t, router, http.MethodPost, "/api/v1/projection", map[string]any{
		"framework":     "ICAAP",
		"horizon_years": 4,
		"base_nii":      100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PROJECTION", errorCode(t, w))
}

func TestListScenarios(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodGet, "/api/v1/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.ScenariosResponse](t, w)
	assert.Len(t, resp.RateShocks, 5)
	require.NotNil(t, resp.RateShocks[1].Parallel)
	assert.Equal(t, -0.01, *resp.RateShocks[1].Parallel)
	assert.Len(t, resp.Regulatory, 3)
	assert.Len(t, resp.Regulatory[2].ByTenor, 4)
	assert.Len(t, resp.DV01Scenarios, 3)
	assert.Equal(t, models.CustomShiftInfo{MinBP: -300, MaxBP: 300, StepBP: 25}, resp.Custom)
}

func TestCurve(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/curve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cur := decode[models.CurveResponse](t, w)
	assert.Equal(t, data.SourceConfig, cur.Source)
	assert.Equal(t, []string{"3M", "1Y", "5Y", "10Y"}, cur.Tenors)
	assert.Equal(t, 0.0405, cur.Rates["1Y"])

	w = do(t, router, http.MethodGet, "/api/v1/curve/history?start_date=2024-01-01&end_date=2024-04-01", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	hist := decode[models.HistoryResponse](t, w)
	assert.Equal(t, data.SourceSnapshot, hist.Source)
	require.Len(t, hist.Observations, 2)
	require.Len(t, hist.Stats, 4)
	assert.Equal(t, 2, hist.Stats[0].Count)

	w = do(t, router, http.MethodGet, "/api/v1/curve/history?start_date=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, w))
}
