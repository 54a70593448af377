package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/api/models"
	"nii-stress/internal/engine"
	"nii-stress/internal/model"
)

type GapHandler struct {
	env *Env
}

func NewGapHandler(env *Env) *GapHandler {
	return &GapHandler{env: env}
}

// GapAndDV01 handles POST /api/v1/gap
func (h *GapHandler) GapAndDV01(c *gin.Context) {
	var req models.GapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ledger, err := h.env.ledger(req.Ledger, req.BusinessUnit)
	if err != nil {
		respondErr(c, err)
		return
	}

	scheme, err := h.env.Config.BucketScheme()
	if err != nil {
		respondErr(c, err)
		return
	}
	if len(req.Buckets) > 0 {
		scheme, err = requestBuckets(req.Buckets)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_BUCKETS", err.Error(), nil)
			return
		}
	}
	scenarios := h.env.Config.DV01()
	if len(req.DV01Scenarios) > 0 {
		scenarios = make([]model.DV01Scenario, 0, len(req.DV01Scenarios))
		for _, s := range req.DV01Scenarios {
			scenarios = append(scenarios, model.DV01Scenario{Name: s.Name, ShiftBP: s.ShiftBP})
		}
	}

	rep, err := engine.GapAndDV01(ledger, scheme, scenarios)
	h.env.Metrics.EngineRun("gap", err)
	if err != nil {
		respondErr(c, err)
		return
	}

	r := rounding(req.Round)
	resp := models.GapResponse{
		Buckets: make([]models.BucketGap, 0, len(rep.Buckets)),
		DV01:    make([]models.DV01Point, 0, len(rep.DV01)),
		Method:  rep.Method,
	}
	for _, b := range rep.Buckets {
		resp.Buckets = append(resp.Buckets, models.BucketGap{
			Bucket:        b.Bucket,
			DurationYears: b.DurationYears,
			Gap:           r(b.Gap),
			CumulativeGap: r(b.CumulativeGap),
		})
	}
	for _, p := range rep.DV01 {
		resp.DV01 = append(resp.DV01, models.DV01Point{
			Scenario: p.Scenario,
			Bucket:   p.Bucket,
			ShiftBP:  p.ShiftBP,
			DV01:     r(p.DV01),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func requestBuckets(in []models.BucketPayload) (model.BucketScheme, error) {
	var s model.BucketScheme
	for _, b := range in {
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
