package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nii-stress/internal/model"
)

// Curve sources, reported with each resolved curve.
const (
	SourceFRED     = "fred"
	SourceSnapshot = "snapshot"
	SourceConfig   = "config"
)

var (
	ErrNoCurve   = errors.New("no yield curve available")
	ErrNoHistory = errors.New("no yield history available")
)

// CurveSource resolves the current curve and its history, preferring live FRED data, then
// snapshot files, then the configured fallback curve. Any field may be left empty.
type CurveSource struct {
	Fred        *FredClient
	Series      SeriesMap
	CurvePath   string
	HistoryPath string
	Fallback    map[model.Tenor]float64
	Logger      *slog.Logger
}

// ResolvedCurve is a curve and where it came from.
type ResolvedCurve struct {
	Curve  model.YieldCurve
	Source string
}

func (s *CurveSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *CurveSource) Latest(ctx context.Context) (*ResolvedCurve, error) {
	var errs []error
	if s.Fred != nil {
		c, err := s.Fred.Latest(ctx, s.Series)
		if err == nil {
			return &ResolvedCurve{Curve: c, Source: SourceFRED}, nil
		}
		s.logger().WarnContext(ctx, "live curve unavailable, falling back", slog.Any("error", err))
		errs = append(errs, err)
	}
	if s.CurvePath != "" {
		c, err := LoadCurveJSON(s.CurvePath)
		if err == nil {
			return &ResolvedCurve{Curve: c, Source: SourceSnapshot}, nil
		}
		errs = append(errs, err)
	}
	if len(s.Fallback) > 0 {
		return &ResolvedCurve{Curve: model.NewYieldCurve(s.Fallback), Source: SourceConfig}, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoCurve
	}
	return nil, fmt.Errorf("%w: %w", ErrNoCurve, errors.Join(errs...))
}

// History returns observations within [start, end], oldest first.
func (s *CurveSource) History(ctx context.Context, start, end time.Time) (model.History, string, error) {
	var errs []error
	if s.Fred != nil {
		h, err := s.Fred.History(ctx, s.Series, start, end)
		if err == nil {
			return h, SourceFRED, nil
		}
		s.logger().WarnContext(ctx, "live history unavailable, falling back", slog.Any("error", err))
		errs = append(errs, err)
	}
	if s.HistoryPath != "" {
		h, err := LoadHistoryJSON(s.HistoryPath)
		if err == nil {
			out := make(model.History, 0, len(h))
			for _, o := range h {
				if !o.Date.Before(start) && !o.Date.After(end) {
					out = append(out, o)
				}
			}
			return out, SourceSnapshot, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", ErrNoHistory
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoHistory, errors.Join(errs...))
}
