package engine

import (
	"fmt"

	"nii-stress/internal/model"
)

// ScenarioNII is one row of a sweep. Delta is NII minus the unshocked NII.
type ScenarioNII struct {
	Name  string
	NII   float64
	Delta float64
}

// Sweep prices the ledger under each scenario, preserving the caller's scenario order.
func Sweep(ledger model.Ledger, base model.YieldCurve, scenarios []model.Scenario) ([]ScenarioNII, error) {
	baseRes, err := ComputeNII(ledger, base)
	if err != nil {
		return nil, err
	}
	out := make([]ScenarioNII, 0, len(scenarios))
	for _, sc := range scenarios {
		shocked, err := ApplyScenario(base, sc)
		if err != nil {
			return nil, err
		}
		res, err := ComputeNII(ledger, shocked)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		out = append(out, ScenarioNII{
			Name:  sc.Name,
			NII:   res.NII,
			Delta: res.NII - baseRes.NII,
		})
	}
	return out, nil
}
