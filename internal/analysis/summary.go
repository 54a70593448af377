package analysis

import (
	"math"
	"sort"

	"nii-stress/internal/model"
)

// TenorStats summarizes one tenor's yields over a history window.
type TenorStats struct {
	Tenor model.Tenor

	Count int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	SpreadP95P05 float64

	// First and Last are the oldest and newest observed yields; Change = Last − First.
	First  float64
	Last   float64
	Change float64
}

// SummarizeHistory computes per-tenor statistics, tenors in canonical order.
// Observations missing a tenor are skipped for that tenor only.
func SummarizeHistory(h model.History) []TenorStats {
	byTenor := map[model.Tenor][]float64{}
	for _, o := range h {
		for t, r := range o.Rates {
			byTenor[t] = append(byTenor[t], r)
		}
	}
	tenors := make([]model.Tenor, 0, len(byTenor))
	for t := range byTenor {
		tenors = append(tenors, t)
	}
	model.SortTenors(tenors)

	out := make([]TenorStats, 0, len(tenors))
	for _, t := range tenors {
		out = append(out, summarize(t, byTenor[t]))
	}
	return out
}

func summarize(t model.Tenor, series []float64) TenorStats {
	s := TenorStats{Tenor: t, Count: len(series)}
	if len(series) == 0 {
		return s
	}
	s.First = series[0]
	s.Last = series[len(series)-1]
	s.Change = s.Last - s.First

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(series))
	for _, v := range series {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95 - s.P05
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
