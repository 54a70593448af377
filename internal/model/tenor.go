package model

import (
	"sort"
	"strconv"
	"strings"
)

// Tenor is a rate-index code on the yield curve, e.g. "3M", "1Y", "10Y".
// Keep codes upper case; they are used as map keys and in API payloads.
type Tenor string

// Years converts a tenor code to a year fraction.
// Supported suffixes: D (days/365), W (weeks), M (months), Y (years).
// A bare number is read as years. Unparseable codes return 0.
func (t Tenor) Years() float64 {
	s := strings.TrimSpace(strings.ToUpper(string(t)))
	if s == "" {
		return 0
	}
	unit := s[len(s)-1]
	num := s[:len(s)-1]
	switch unit {
	case 'D':
		return atof(num) / 365.0
	case 'W':
		return atof(num) * 7.0 / 365.0
	case 'M':
		return atof(num) / 12.0
	case 'Y':
		return atof(num)
	}
	return atof(s)
}

func atof(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// SortTenors orders tenors canonically: shortest maturity first, ties broken by code.
// The input slice is sorted in place and returned for convenience.
func SortTenors(ts []Tenor) []Tenor {
	sort.SliceStable(ts, func(i, j int) bool {
		yi, yj := ts[i].Years(), ts[j].Years()
		if yi != yj {
			return yi < yj
		}
		return ts[i] < ts[j]
	})
	return ts
}
