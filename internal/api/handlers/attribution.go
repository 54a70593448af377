package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/analysis"
	"nii-stress/internal/api/models"
	"nii-stress/internal/data"
	"nii-stress/internal/engine"
	"nii-stress/internal/model"
)

type AttributionHandler struct {
	env *Env
}

func NewAttributionHandler(env *Env) *AttributionHandler {
	return &AttributionHandler{env: env}
}

// Attribute handles POST /api/v1/attribution
func (h *AttributionHandler) Attribute(c *gin.Context) {
	var req models.AttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	bu, err := model.ParseBusinessUnit(req.BusinessUnit)
	if err != nil {
		respondErr(c, err)
		return
	}
	start, end, err := h.ledgers(req)
	if err != nil {
		respondErr(c, err)
		return
	}
	keep := model.ByBusinessUnit(bu)
	start, end = start.Filter(keep), end.Filter(keep)

	resp := models.AttributionResponse{BusinessUnit: string(bu)}
	var startCurve, endCurve model.YieldCurve
	switch {
	case len(req.StartCurve) > 0 && len(req.EndCurve) > 0:
		startCurve, endCurve = toCurve(req.StartCurve), toCurve(req.EndCurve)
	case req.StartDate != "" && req.EndDate != "":
		period, err := h.period(c, req.StartDate, req.EndDate)
		if err != nil {
			respondErr(c, err)
			return
		}
		startCurve, endCurve = period.StartCurve, period.EndCurve
		resp.StartDate = period.StartDate.Format(time.DateOnly)
		resp.EndDate = period.EndDate.Format(time.DateOnly)
	default:
		respondError(c, http.StatusBadRequest, "MISSING_CURVES",
			"give start_curve and end_curve, or start_date and end_date", nil)
		return
	}

	att, err := engine.Attribute(start, end, startCurve, endCurve)
	h.env.Metrics.EngineRun("attribution", err)
	if err != nil {
		respondErr(c, err)
		return
	}

	r := rounding(req.Round)
	resp.StartingNII = r(att.StartingNII)
	resp.RateVariance = r(att.RateVariance)
	resp.VolumeVariance = r(att.VolumeVariance)
	resp.MixVariance = r(att.MixVariance)
	resp.EndingNII = r(att.EndingNII)
	resp.Residual = att.Residual()
	resp.Steps = toSteps(att.Steps(), r)
	resp.Lines = make([]models.AttributionLine, 0, len(att.Lines))
	for _, l := range att.Lines {
		resp.Lines = append(resp.Lines, models.AttributionLine{
			Key:            l.Key,
			StartBalance:   r(l.StartBalance),
			EndBalance:     r(l.EndBalance),
			StartRate:      l.StartRate,
			EndRate:        l.EndRate,
			StartingNII:    r(l.StartingNII),
			RateVariance:   r(l.RateVariance),
			VolumeVariance: r(l.VolumeVariance),
			MixVariance:    r(l.MixVariance),
			EndingNII:      r(l.EndingNII),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ledgers takes both snapshots from the request, or both from config.
func (h *AttributionHandler) ledgers(req models.AttributionRequest) (model.Ledger, model.Ledger, error) {
	switch {
	case req.StartLedger != nil && req.EndLedger != nil:
		start, err := toLedger(req.StartLedger)
		if err != nil {
			return model.Ledger{}, model.Ledger{}, err
		}
		end, err := toLedger(req.EndLedger)
		if err != nil {
			return model.Ledger{}, model.Ledger{}, err
		}
		return start, end, nil
	case req.StartLedger == nil && req.EndLedger == nil:
		start, end, err := h.env.Config.PeriodLedgers()
		if err != nil {
			return model.Ledger{}, model.Ledger{}, &requestError{code: "INVALID_LEDGER", err: err}
		}
		return start, end, nil
	}
	return model.Ledger{}, model.Ledger{}, &requestError{
		code: "INVALID_LEDGER",
		err:  errors.New("give both start_ledger and end_ledger, or neither"),
	}
}

func (h *AttributionHandler) period(c *gin.Context, startDate, endDate string) (*analysis.Period, error) {
	start, err := parseDate("start_date", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, analysis.ErrInvertedWindow
	}
	if h.env.Curves == nil {
		return nil, data.ErrNoHistory
	}
	hist, _, err := h.env.Curves.History(c.Request.Context(), start, end)
	if err != nil {
		return nil, err
	}
	return analysis.PeriodCurves(hist, start, end)
}
