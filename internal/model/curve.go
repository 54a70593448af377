package model

// YieldCurve maps tenor codes to yields expressed as decimal fractions (0.045 = 4.5%).
//
// A curve is immutable: constructors copy their input and shocked curves are new values.
// The zero value is an empty curve.
type YieldCurve struct {
	rates map[Tenor]float64
}

// NewYieldCurve builds a curve from a tenor -> yield map. The map is copied.
func NewYieldCurve(rates map[Tenor]float64) YieldCurve {
	cp := make(map[Tenor]float64, len(rates))
	for t, r := range rates {
		cp[t] = r
	}
	return YieldCurve{rates: cp}
}

// Rate returns the yield at tenor t, or *MissingTenorRateError if the curve has no entry.
// A missing tenor is never treated as a zero rate.
func (c YieldCurve) Rate(t Tenor) (float64, error) {
	r, ok := c.rates[t]
	if !ok {
		return 0, &MissingTenorRateError{Tenor: t}
	}
	return r, nil
}

// Has reports whether the curve carries a yield for t.
func (c YieldCurve) Has(t Tenor) bool {
	_, ok := c.rates[t]
	return ok
}

// Len is the number of tenors on the curve.
func (c YieldCurve) Len() int { return len(c.rates) }

// Tenors returns the curve's tenors in canonical order.
func (c YieldCurve) Tenors() []Tenor {
	out := make([]Tenor, 0, len(c.rates))
	for t := range c.rates {
		out = append(out, t)
	}
	return SortTenors(out)
}

// Rates returns a copy of the underlying tenor -> yield map.
func (c YieldCurve) Rates() map[Tenor]float64 {
	cp := make(map[Tenor]float64, len(c.rates))
	for t, r := range c.rates {
		cp[t] = r
	}
	return cp
}
