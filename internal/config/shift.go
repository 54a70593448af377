package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"nii-stress/internal/model"
)

// ShiftValue is a scenario shift as written in YAML: a scalar for a parallel shift
// (shift: -0.01) or a tenor map for a per-tenor one (shift: {3M: -0.01, 10Y: -0.02}).
type ShiftValue struct {
	model.Shift
}

func (s *ShiftValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: shift must be a number: %w", node.Line, err)
		}
		s.Shift = model.ParallelShift(v)
		return nil
	case yaml.MappingNode:
		var m map[model.Tenor]float64
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("line %d: shift map must be tenor: number: %w", node.Line, err)
		}
		s.Shift = model.PerTenorShift(m)
		return nil
	}
	return fmt.Errorf("line %d: shift must be a number or a tenor map", node.Line)
}

func (s ShiftValue) MarshalYAML() (any, error) {
	if s.IsPerTenor() {
		return s.ByTenor, nil
	}
	return s.Parallel, nil
}
