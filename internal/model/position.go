package model

import (
	"errors"
	"fmt"
	"math"
)

// Side says which half of the balance sheet a position sits on.
// Keep these values stable; they appear in API payloads and CSV output.
type Side string

const (
	SideAsset     Side = "ASSET"
	SideLiability Side = "LIABILITY"
)

// Sign is +1 for assets and -1 for liabilities: the direction a position contributes to NII.
func (s Side) Sign() float64 {
	if s == SideLiability {
		return -1
	}
	return 1
}

// BusinessUnit tags a position for the business-unit filter. Empty means untagged.
type BusinessUnit string

const (
	BusinessUnitNone      BusinessUnit = ""
	BusinessUnitCorporate BusinessUnit = "Corporate"
	BusinessUnitRetail    BusinessUnit = "Retail"
)

// ParseBusinessUnit accepts "", "All", "Corporate" or "Retail".
// "All" maps to BusinessUnitNone, which ByBusinessUnit treats as "no filter".
func ParseBusinessUnit(s string) (BusinessUnit, error) {
	switch s {
	case "", "All", "all":
		return BusinessUnitNone, nil
	case string(BusinessUnitCorporate):
		return BusinessUnitCorporate, nil
	case string(BusinessUnitRetail):
		return BusinessUnitRetail, nil
	}
	return BusinessUnitNone, fmt.Errorf("%w: %q", ErrUnknownBusinessUnit, s)
}

var (
	ErrNegativeBalance     = errors.New("balance must be finite and >= 0")
	ErrEmptyTenor          = errors.New("tenor is required")
	ErrUnknownBusinessUnit = errors.New("unknown business unit")
)

// Position is one balance-sheet line item.
// Units:
// - Balance: $M, non-negative
// - Tenor: the rate index the line reprices off
type Position struct {
	Type         string
	Balance      float64
	Tenor        Tenor
	BusinessUnit BusinessUnit
}

func (p Position) Validate() error {
	if !(p.Balance >= 0) || math.IsInf(p.Balance, 1) {
		return fmt.Errorf("%s: %w: %v", p.Type, ErrNegativeBalance, p.Balance)
	}
	if p.Tenor == "" {
		return fmt.Errorf("%s: %w", p.Type, ErrEmptyTenor)
	}
	switch p.BusinessUnit {
	case BusinessUnitNone, BusinessUnitCorporate, BusinessUnitRetail:
	default:
		return fmt.Errorf("%s: %w: %q", p.Type, ErrUnknownBusinessUnit, p.BusinessUnit)
	}
	return nil
}

// Ledger is a balance-sheet snapshot. It lives for one computation; nothing persists it.
type Ledger struct {
	Assets      []Position
	Liabilities []Position
}

// NewLedger validates and copies the given positions.
func NewLedger(assets, liabilities []Position) (Ledger, error) {
	l := Ledger{
		Assets:      append([]Position(nil), assets...),
		Liabilities: append([]Position(nil), liabilities...),
	}
	if err := l.Validate(); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

func (l Ledger) Validate() error {
	for i, p := range l.Assets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("asset %d: %w", i, err)
		}
	}
	for i, p := range l.Liabilities {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("liability %d: %w", i, err)
		}
	}
	return nil
}

// Filter returns a new ledger holding only the positions for which keep returns true.
func (l Ledger) Filter(keep func(Position) bool) Ledger {
	out := Ledger{}
	for _, p := range l.Assets {
		if keep(p) {
			out.Assets = append(out.Assets, p)
		}
	}
	for _, p := range l.Liabilities {
		if keep(p) {
			out.Liabilities = append(out.Liabilities, p)
		}
	}
	return out
}

// ByBusinessUnit is a Filter predicate. BusinessUnitNone keeps everything.
func ByBusinessUnit(bu BusinessUnit) func(Position) bool {
	return func(p Position) bool {
		return bu == BusinessUnitNone || p.BusinessUnit == bu
	}
}

// Each calls fn for every position, assets first, in ledger order.
func (l Ledger) Each(fn func(Side, Position)) {
	for _, p := range l.Assets {
		fn(SideAsset, p)
	}
	for _, p := range l.Liabilities {
		fn(SideLiability, p)
	}
}

// Tenors returns the distinct tenors referenced by the ledger in canonical order.
func (l Ledger) Tenors() []Tenor {
	seen := map[Tenor]bool{}
	var out []Tenor
	l.Each(func(_ Side, p Position) {
		if !seen[p.Tenor] {
			seen[p.Tenor] = true
			out = append(out, p.Tenor)
		}
	})
	return SortTenors(out)
}

func (l Ledger) TotalAssets() float64 { return sumBalances(l.Assets) }

func (l Ledger) TotalLiabilities() float64 { return sumBalances(l.Liabilities) }

func sumBalances(ps []Position) float64 {
	total := 0.0
	for _, p := range ps {
		total += p.Balance
	}
	return total
}
