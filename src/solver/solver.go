package solver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"house_assignment/src/housing"
)

// Solver runs the Va and Vb assignment algorithms in process. Every group of the
// snapshot appears in a result; unassigned groups map to "".
type Solver struct {
	Backend Backend
	Logger  *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *Solver {
	if backend == nil {
		backend = Highs{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{Backend: backend, Logger: logger}
}

// Solve runs the algorithm of the given variant. The program itself cannot be
// interrupted; ctx is only checked before it starts.
func (s *Solver) Solve(ctx context.Context, variant housing.Variant, snap *housing.Snapshot) (housing.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inst := NewInstance(snap)
	switch variant {
	case housing.VariantA:
		result, _, err := s.SolveVa(inst)
		return result, err
	case housing.VariantB:
		return s.SolveVb(inst)
	}
	return nil, fmt.Errorf("unknown variant %q", variant)
}
