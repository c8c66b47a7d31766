package solver

import (
	"fmt"

	"go.uber.org/zap"

	"house_assignment/src/housing"
)

// SolveVb assigns every group in a single program over the full capacity.
func (s *Solver) SolveVb(inst *Instance) (housing.Result, error) {
	result := make(housing.Result, len(inst.Groups))
	groups := make([]int, len(inst.Groups))
	for gi := range inst.Groups {
		groups[gi] = gi
		result[inst.Groups[gi].ID] = ""
	}

	model := inst.defModel(groups, inst.Capacity)
	s.Logger.Debug("vb program", zap.Int("groups", len(groups)), zap.Int("columns", model.NumCols()))
	values, err := s.Backend.Solve(model)
	if err != nil {
		return nil, fmt.Errorf("vb program: %w", err)
	}
	for gi, hi := range model.chosen(values) {
		result[inst.Groups[gi].ID] = inst.Houses[hi].ID
	}
	return result, nil
}
