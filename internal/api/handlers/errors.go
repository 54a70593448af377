package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/analysis"
	"nii-stress/internal/api/models"
	"nii-stress/internal/data"
	"nii-stress/internal/logging"
	"nii-stress/internal/model"
	"nii-stress/internal/scenario"
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondErr maps an error from request resolution or the engine onto the error envelope.
func respondErr(c *gin.Context, err error) {
	var (
		missing    *model.MissingTenorRateError
		mismatched *model.MismatchedLedgersError
		invalid    *model.InvalidScenarioError
		unmapped   *model.UnmappedTenorError
		fredErr    *data.FredError
		reqErr     *requestError
	)
	switch {
	case errors.As(err, &reqErr):
		respondError(c, http.StatusBadRequest, reqErr.code, err.Error(), nil)
	case errors.As(err, &missing):
		respondError(c, http.StatusUnprocessableEntity, "MISSING_TENOR_RATE", err.Error(),
			map[string]interface{}{"tenor": string(missing.Tenor)})
	case errors.As(err, &mismatched):
		respondError(c, http.StatusUnprocessableEntity, "MISMATCHED_LEDGERS", err.Error(),
			map[string]interface{}{"keys": mismatched.Keys})
	case errors.As(err, &invalid):
		respondError(c, http.StatusBadRequest, "INVALID_SCENARIO", err.Error(),
			map[string]interface{}{"scenario": invalid.Scenario, "tenor": string(invalid.Tenor)})
	case errors.As(err, &unmapped):
		respondError(c, http.StatusUnprocessableEntity, "UNMAPPED_TENOR", err.Error(),
			map[string]interface{}{"tenor": string(unmapped.Tenor)})
	case errors.Is(err, model.ErrNegativeBalance),
		errors.Is(err, model.ErrEmptyTenor),
		errors.Is(err, model.ErrUnknownBusinessUnit),
		errors.Is(err, errMissingLedger):
		respondError(c, http.StatusBadRequest, "INVALID_LEDGER", err.Error(), nil)
	case errors.Is(err, errInvalidShift),
		errors.Is(err, scenario.ErrUnknownScenario),
		errors.Is(err, scenario.ErrUnknownGroup),
		errors.Is(err, scenario.ErrCustomBPRange),
		errors.Is(err, scenario.ErrCustomBPStep),
		errors.Is(err, scenario.ErrNotParallel):
		respondError(c, http.StatusBadRequest, "INVALID_SCENARIO", err.Error(), nil)
	case errors.Is(err, analysis.ErrInvertedWindow), errors.Is(err, analysis.ErrEmptyWindow):
		respondError(c, http.StatusBadRequest, "INVALID_DATE_RANGE", err.Error(), nil)
	case errors.Is(err, analysis.ErrUnknownFramework),
		errors.Is(err, analysis.ErrInvalidHorizon),
		errors.Is(err, analysis.ErrProvisionRate):
		respondError(c, http.StatusBadRequest, "INVALID_PROJECTION", err.Error(), nil)
	case errors.As(err, &fredErr):
		status := http.StatusBadGateway
		switch fredErr.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			status = http.StatusUnauthorized
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		}
		respondError(c, status, fredErr.Code, fredErr.Message, map[string]interface{}{
			"status_code": fredErr.StatusCode,
			"retry_after": fredErr.RetryAfter,
		})
	case errors.Is(err, data.ErrNoCurve), errors.Is(err, data.ErrNoHistory):
		respondError(c, http.StatusServiceUnavailable, "CURVE_UNAVAILABLE", err.Error(), nil)
	default:
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "unhandled error",
			slog.String("path", c.FullPath()), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}
