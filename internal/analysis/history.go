package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"nii-stress/internal/model"
)

var (
	ErrInvertedWindow = errors.New("start date is after end date")
	ErrEmptyWindow    = errors.New("no observations in window")
)

// Period is the pair of curves bounding a historical window.
type Period struct {
	StartDate    time.Time
	EndDate      time.Time
	StartCurve   model.YieldCurve
	EndCurve     model.YieldCurve
	Observations int
}

// Window returns the observations dated within [start, end], oldest first.
// The input is not modified.
func Window(h model.History, start, end time.Time) model.History {
	out := make(model.History, 0, len(h))
	for _, o := range h {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PeriodCurves picks the first observation on/after start and the last on/before end as the
// start and end curves of an attribution. A window holding a single observation yields the same
// curve twice.
func PeriodCurves(h model.History, start, end time.Time) (*Period, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvertedWindow, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	w := Window(h, start, end)
	if len(w) == 0 {
		return nil, fmt.Errorf("%w: %s..%s", ErrEmptyWindow, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	first, last := w[0], w[len(w)-1]
	return &Period{
		StartDate:    first.Date,
		EndDate:      last.Date,
		StartCurve:   first.Curve(),
		EndCurve:     last.Curve(),
		Observations: len(w),
	}, nil
}
