// Package engine holds the NII stress and variance-decomposition calculations.
// Every function here is a pure function of its arguments: no I/O, no logging, no shared state.
package engine

import (
	"fmt"

	"nii-stress/internal/model"
)

// PositionNII is the interest on one line item under a given curve.
// Amount is income for assets and expense for liabilities, both reported positive.
type PositionNII struct {
	Side     model.Side
	Position model.Position
	Rate     float64
	Amount   float64
}

// NIIResult is the output of ComputeNII. Nothing is rounded.
type NIIResult struct {
	Income    float64
	Expense   float64
	NII       float64
	Positions []PositionNII
}

// ComputeNII prices every position off curve[tenor]:
// income = Σ asset balance × rate, expense = Σ liability balance × rate, NII = income − expense.
func ComputeNII(ledger model.Ledger, curve model.YieldCurve) (*NIIResult, error) {
	res := &NIIResult{
		Positions: make([]PositionNII, 0, len(ledger.Assets)+len(ledger.Liabilities)),
	}
	var err error
	ledger.Each(func(side model.Side, p model.Position) {
		if err != nil {
			return
		}
		rate, rerr := curve.Rate(p.Tenor)
		if rerr != nil {
			err = fmt.Errorf("%s %s: %w", side, p.Type, rerr)
			return
		}
		amt := p.Balance * rate
		if side == model.SideAsset {
			res.Income += amt
		} else {
			res.Expense += amt
		}
		res.Positions = append(res.Positions, PositionNII{
			Side:     side,
			Position: p,
			Rate:     rate,
			Amount:   amt,
		})
	})
	if err != nil {
		return nil, err
	}
	res.NII = res.Income - res.Expense
	return res, nil
}

// StressedNII shocks base by shift and prices the ledger on the result.
func StressedNII(ledger model.Ledger, base model.YieldCurve, shift model.Shift) (*NIIResult, error) {
	shocked, err := Shock(base, shift)
	if err != nil {
		return nil, err
	}
	return ComputeNII(ledger, shocked)
}
