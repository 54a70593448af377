package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/analysis"
	"nii-stress/internal/api/models"
	"nii-stress/internal/engine"
	"nii-stress/internal/model"
	"nii-stress/internal/scenario"
)

// StressHandler serves stressed NII, scenario sweeps and tenor waterfalls.
type StressHandler struct {
	env *Env
}

func NewStressHandler(env *Env) *StressHandler {
	return &StressHandler{env: env}
}

// ComputeNII handles POST /api/v1/nii
func (h *StressHandler) ComputeNII(c *gin.Context) {
	var req models.NIIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ledger, err := h.env.ledger(req.Ledger, req.BusinessUnit)
	if err != nil {
		respondErr(c, err)
		return
	}
	curve, source, err := h.env.curve(c.Request.Context(), req.Curve)
	if err != nil {
		respondErr(c, err)
		return
	}
	sc, err := h.env.scenario(req.Shift, req.Selection)
	if err != nil {
		respondErr(c, err)
		return
	}

	base, stressed, err := stressedNII(ledger, curve, sc)
	h.env.Metrics.EngineRun("nii", err)
	if err != nil {
		respondErr(c, err)
		return
	}

	r := rounding(req.Round)
	resp := models.NIIResponse{
		Scenario:         sc.Name,
		Description:      sc.Description,
		CurveSource:      source,
		Income:           r(stressed.Income),
		Expense:          r(stressed.Expense),
		NII:              r(stressed.NII),
		BaseNII:          r(base.NII),
		Delta:            r(stressed.NII - base.NII),
		TotalAssets:      r(ledger.TotalAssets()),
		TotalLiabilities: r(ledger.TotalLiabilities()),
		Positions:        make([]models.PositionNII, 0, len(stressed.Positions)),
	}
	for _, p := range stressed.Positions {
		resp.Positions = append(resp.Positions, models.PositionNII{
			Side:         string(p.Side),
			Type:         p.Position.Type,
			Tenor:        string(p.Position.Tenor),
			BusinessUnit: string(p.Position.BusinessUnit),
			Balance:      r(p.Position.Balance),
			Rate:         p.Rate,
			Amount:       r(p.Amount),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func stressedNII(ledger model.Ledger, curve model.YieldCurve, sc model.Scenario) (base, stressed *engine.NIIResult, err error) {
	base, err = engine.ComputeNII(ledger, curve)
	if err != nil {
		return nil, nil, err
	}
	shocked, err := engine.ApplyScenario(curve, sc)
	if err != nil {
		return nil, nil, err
	}
	stressed, err = engine.ComputeNII(ledger, shocked)
	if err != nil {
		return nil, nil, err
	}
	return base, stressed, nil
}

// Sweep handles POST /api/v1/sweep
func (h *StressHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ledger, err := h.env.ledger(req.Ledger, req.BusinessUnit)
	if err != nil {
		respondErr(c, err)
		return
	}
	curve, source, err := h.env.curve(c.Request.Context(), req.Curve)
	if err != nil {
		respondErr(c, err)
		return
	}

	var scenarios []model.Scenario
	if len(req.Scenarios) > 0 {
		scenarios, err = toScenarios(req.Scenarios)
	} else {
		group := req.Group
		if group == "" {
			group = scenario.GroupRateShocks
		}
		scenarios, err = h.env.Registry.Group(group)
	}
	if err != nil {
		respondErr(c, err)
		return
	}

	results, err := engine.Sweep(ledger, curve, scenarios)
	h.env.Metrics.EngineRun("sweep", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	base, err := engine.ComputeNII(ledger, curve)
	if err != nil {
		respondErr(c, err)
		return
	}

	r := rounding(req.Round)
	resp := models.SweepResponse{
		CurveSource: source,
		BaseNII:     r(base.NII),
		Results:     make([]models.ScenarioResult, 0, len(results)),
	}
	for _, s := range results {
		resp.Results = append(resp.Results, models.ScenarioResult{Name: s.Name, NII: r(s.NII), Delta: r(s.Delta)})
	}
	for _, s := range analysis.RankScenarios(results) {
		resp.Ranked = append(resp.Ranked, models.ScenarioResult{Name: s.Name, NII: r(s.NII), Delta: r(s.Delta), Rank: s.Rank})
	}
	c.JSON(http.StatusOK, resp)
}

// Waterfall handles POST /api/v1/waterfall
func (h *StressHandler) Waterfall(c *gin.Context) {
	var req models.WaterfallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ledger, err := h.env.ledger(req.Ledger, req.BusinessUnit)
	if err != nil {
		respondErr(c, err)
		return
	}
	base, source, err := h.env.curve(c.Request.Context(), req.Curve)
	if err != nil {
		respondErr(c, err)
		return
	}

	name := "Scenario curve"
	var target model.YieldCurve
	if len(req.ScenarioCurve) > 0 {
		target = toCurve(req.ScenarioCurve)
	} else {
		sc, err := h.env.scenario(req.Shift, req.Selection)
		if err != nil {
			respondErr(c, err)
			return
		}
		name = sc.Name
		if target, err = engine.ApplyScenario(base, sc); err != nil {
			respondErr(c, err)
			return
		}
	}

	steps, err := engine.Waterfall(ledger, base, target)
	h.env.Metrics.EngineRun("waterfall", err)
	if err != nil {
		respondErr(c, err)
		return
	}
	r := rounding(req.Round)
	c.JSON(http.StatusOK, models.WaterfallResponse{
		Scenario:    name,
		CurveSource: source,
		Steps:       toSteps(steps, r),
		Total:       r(steps[len(steps)-1].Delta),
	})
}

func toSteps(steps []engine.WaterfallStep, r rounder) []models.WaterfallStep {
	out := make([]models.WaterfallStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, models.WaterfallStep{
			Label:           s.Label,
			Delta:           r(s.Delta),
			CumulativeStart: r(s.CumulativeStart),
			CumulativeEnd:   r(s.CumulativeEnd),
		})
	}
	return out
}
