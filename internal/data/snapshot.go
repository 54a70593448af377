package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"nii-stress/internal/model"
)

// CurveSnapshot is the on-disk form of a yield curve.
type CurveSnapshot struct {
	AsOf   string                  `json:"as_of,omitempty"`
	Source string                  `json:"source,omitempty"`
	Series map[model.Tenor]string  `json:"series,omitempty"`
	Rates  map[model.Tenor]float64 `json:"rates"`
}

// HistorySnapshot is the on-disk form of a yield history.
type HistorySnapshot struct {
	UpdatedAt    string                 `json:"updated_at,omitempty"`
	Series       map[model.Tenor]string `json:"series,omitempty"`
	Observations []ObservationSnapshot  `json:"observations"`
}

type ObservationSnapshot struct {
	Date  string                  `json:"date"`
	Rates map[model.Tenor]float64 `json:"rates"`
}

func NewCurveSnapshot(curve model.YieldCurve, asOf time.Time, series SeriesMap) *CurveSnapshot {
	return &CurveSnapshot{
		AsOf:   asOf.Format(time.DateOnly),
		Source: "FRED",
		Series: series,
		Rates:  curve.Rates(),
	}
}

func NewHistorySnapshot(h model.History, series SeriesMap) *HistorySnapshot {
	s := &HistorySnapshot{
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		Series:       series,
		Observations: make([]ObservationSnapshot, 0, len(h)),
	}
	for _, o := range h {
		s.Observations = append(s.Observations, ObservationSnapshot{
			Date:  o.Date.Format(time.DateOnly),
			Rates: o.Rates,
		})
	}
	return s
}

// LoadCurveJSON reads a CurveSnapshot file.
func LoadCurveJSON(path string) (model.YieldCurve, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.YieldCurve{}, fmt.Errorf("failed to read curve file: %w", err)
	}
	var s CurveSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.YieldCurve{}, fmt.Errorf("failed to parse curve file: %w", err)
	}
	if len(s.Rates) == 0 {
		return model.YieldCurve{}, fmt.Errorf("curve file %s has no rates", path)
	}
	return model.NewYieldCurve(s.Rates), nil
}

// LoadHistoryJSON reads a HistorySnapshot file, oldest observation first.
func LoadHistoryJSON(path string) (model.History, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var s HistorySnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	out := make(model.History, 0, len(s.Observations))
	for _, o := range s.Observations {
		d, err := time.Parse(time.DateOnly, o.Date)
		if err != nil {
			return nil, fmt.Errorf("history file: bad date %q: %w", o.Date, err)
		}
		out = append(out, model.Observation{Date: d, Rates: o.Rates})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaveSnapshot writes v as indented JSON, creating parent directories.
func SaveSnapshot(v any, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
