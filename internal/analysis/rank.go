package analysis

import (
	"sort"

	"nii-stress/internal/engine"
)

type RankedScenario struct {
	engine.ScenarioNII
	Rank int
}

// RankScenarios orders sweep results worst NII first. Ties keep sweep order.
// The input slice is left untouched.
func RankScenarios(results []engine.ScenarioNII) []RankedScenario {
	out := make([]RankedScenario, 0, len(results))
	for _, r := range results {
		out = append(out, RankedScenario{ScenarioNII: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NII < out[j].NII
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
