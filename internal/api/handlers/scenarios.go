package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/api/models"
	"nii-stress/internal/model"
	"nii-stress/internal/scenario"
)

type ScenarioHandler struct {
	env *Env
}

func NewScenarioHandler(env *Env) *ScenarioHandler {
	return &ScenarioHandler{env: env}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	resp := models.ScenariosResponse{
		RateShocks: scenarioInfos(h.env.Registry.RateShocks),
		Regulatory: scenarioInfos(h.env.Registry.Regulatory),
		Custom: models.CustomShiftInfo{
			MinBP:  scenario.MinCustomBP,
			MaxBP:  scenario.MaxCustomBP,
			StepBP: scenario.CustomStepBP,
		},
	}
	for _, s := range h.env.Config.DV01() {
		resp.DV01Scenarios = append(resp.DV01Scenarios, models.DV01Point{Scenario: s.Name, ShiftBP: s.ShiftBP})
	}
	c.JSON(http.StatusOK, resp)
}

func scenarioInfos(ss []model.Scenario) []models.ScenarioInfo {
	out := make([]models.ScenarioInfo, 0, len(ss))
	for _, s := range ss {
		info := models.ScenarioInfo{Name: s.Name, Description: s.Description}
		if s.Shift.IsPerTenor() {
			info.ByTenor = rateMap(s.Shift.ByTenor)
		} else {
			p := s.Shift.Parallel
			info.Parallel = &p
		}
		out = append(out, info)
	}
	return out
}
