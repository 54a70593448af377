package model

// Shift is a rate shock: either one parallel amount for every tenor, or one amount per tenor.
// Amounts are decimal fractions (-0.01 = -100bp).
//
// For a per-tenor shift, tenors absent from ByTenor keep their baseline yield.
type Shift struct {
	Parallel float64
	ByTenor  map[Tenor]float64
}

// ParallelShift shocks every tenor by the same amount.
func ParallelShift(amount float64) Shift {
	return Shift{Parallel: amount}
}

// PerTenorShift shocks each listed tenor by its own amount. The map is copied.
func PerTenorShift(amounts map[Tenor]float64) Shift {
	cp := make(map[Tenor]float64, len(amounts))
	for t, a := range amounts {
		cp[t] = a
	}
	return Shift{ByTenor: cp}
}

// IsPerTenor reports whether the shift carries tenor-specific amounts.
func (s Shift) IsPerTenor() bool { return s.ByTenor != nil }

// Amount returns the shift applied at tenor t.
func (s Shift) Amount(t Tenor) float64 {
	if s.ByTenor == nil {
		return s.Parallel
	}
	return s.ByTenor[t]
}

// BPToDecimal converts basis points to a decimal fraction (25bp -> 0.0025).
func BPToDecimal(bp float64) float64 { return bp / 10000 }
