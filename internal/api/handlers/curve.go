package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/analysis"
	"nii-stress/internal/api/models"
	"nii-stress/internal/data"
	"nii-stress/internal/model"
)

type CurveHandler struct {
	env *Env
}

func NewCurveHandler(env *Env) *CurveHandler {
	return &CurveHandler{env: env}
}

// Current handles GET /api/v1/curve
func (h *CurveHandler) Current(c *gin.Context) {
	curve, source, err := h.env.curve(c.Request.Context(), nil)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := models.CurveResponse{Source: source, Rates: map[string]float64{}}
	for _, t := range curve.Tenors() {
		r, _ := curve.Rate(t)
		resp.Rates[string(t)] = r
		resp.Tenors = append(resp.Tenors, string(t))
	}
	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/v1/curve/history
func (h *CurveHandler) History(c *gin.Context) {
	var q models.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	start, err := parseDate("start_date", q.StartDate)
	if err != nil {
		respondErr(c, err)
		return
	}
	end, err := parseDate("end_date", q.EndDate)
	if err != nil {
		respondErr(c, err)
		return
	}
	if start.After(end) {
		respondErr(c, analysis.ErrInvertedWindow)
		return
	}
	if h.env.Curves == nil {
		respondErr(c, data.ErrNoHistory)
		return
	}
	hist, source, err := h.env.Curves.History(c.Request.Context(), start, end)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := models.HistoryResponse{
		Source:       source,
		Observations: make([]models.Observation, 0, len(hist)),
	}
	for _, o := range hist {
		resp.Observations = append(resp.Observations, models.Observation{
			Date:  o.Date.Format(time.DateOnly),
			Rates: rateMap(o.Rates),
		})
	}
	for _, s := range analysis.SummarizeHistory(hist) {
		resp.Stats = append(resp.Stats, models.TenorStats{
			Tenor:  string(s.Tenor),
			Count:  s.Count,
			Min:    s.Min,
			Max:    s.Max,
			Mean:   s.Mean,
			P05:    s.P05,
			P95:    s.P95,
			First:  s.First,
			Last:   s.Last,
			Change: s.Change,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func rateMap(m map[model.Tenor]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for t, r := range m {
		out[string(t)] = r
	}
	return out
}
