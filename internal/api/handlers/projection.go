package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/analysis"
	"nii-stress/internal/api/models"
)

type ProjectionHandler struct {
	env *Env
}

func NewProjectionHandler(env *Env) *ProjectionHandler {
	return &ProjectionHandler{env: env}
}

// Project handles POST /api/v1/projection
func (h *ProjectionHandler) Project(c *gin.Context) {
	var req models.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	framework, err := analysis.ParseFramework(req.Framework)
	if err != nil {
		respondErr(c, err)
		return
	}
	from := h.env.Now()
	if req.From != "" {
		if from, err = parseDate("from", req.From); err != nil {
			respondErr(c, err)
			return
		}
	}

	var baseNII float64
	if req.BaseNII != nil {
		baseNII = *req.BaseNII
	} else {
		ledger, err := h.env.ledger(req.Ledger, req.BusinessUnit)
		if err != nil {
			respondErr(c, err)
			return
		}
		curve, _, err := h.env.curve(c.Request.Context(), req.Curve)
		if err != nil {
			respondErr(c, err)
			return
		}
		sc, err := h.env.scenario(req.Shift, req.Selection)
		if err != nil {
			respondErr(c, err)
			return
		}
		_, stressed, err := stressedNII(ledger, curve, sc)
		if err != nil {
			respondErr(c, err)
			return
		}
		baseNII = stressed.NII
	}

	a := h.env.Config.Assumptions()
	if req.GDPGrowthPct != nil {
		a.GDPGrowthPct = *req.GDPGrowthPct
	}
	if req.UnemploymentPct != nil {
		a.UnemploymentPct = *req.UnemploymentPct
	}
	if req.ProvisionRatePct != nil {
		a.ProvisionRatePct = *req.ProvisionRatePct
	}

	rows, err := analysis.Project(analysis.ProjectionInput{
		Framework:    framework,
		HorizonYears: req.HorizonYears,
		From:         from,
		BaseNII:      baseNII,
		Assumptions:  a,
		Ratios:       analysis.DefaultRatioPath(),
	})
	h.env.Metrics.EngineRun("projection", err)
	if err != nil {
		respondErr(c, err)
		return
	}

	r := rounding(req.Round)
	resp := models.ProjectionResponse{
		Framework: string(framework),
		BaseNII:   r(baseNII),
		Rows:      make([]models.ProjectionRow, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, models.ProjectionRow{
			Period:     row.Period,
			PeriodEnd:  row.PeriodEnd.Format(time.DateOnly),
			NII:        r(row.NII),
			Provisions: r(row.Provisions),
			PreTaxPL:   r(row.PreTaxPL),
			CET1:       row.CET1,
			Tier1:      row.Tier1,
			LCR:        row.LCR,
			NSFR:       row.NSFR,
		})
	}
	c.JSON(http.StatusOK, resp)
}
