package solver

import (
	"fmt"

	"github.com/draffensperger/golp"
)

// LPSolve runs the model through lp_solve.
type LPSolve struct{}

func defLPSolveModel(m *Model) (*golp.LP, error) {
	lp := golp.NewLP(0, m.NumCols())
	for j := range m.NumCols() {
		lp.SetInt(j, true)
		lp.SetBounds(j, 0, 1)
	}
	for i, row := range m.Rows {
		entries := make([]golp.Entry, len(row))
		for k, e := range row {
			entries[k] = golp.Entry{Col: e.Col, Val: e.Val}
		}
		if err := lp.AddConstraintSparse(entries, golp.LE, m.Upper.AtVec(i)); err != nil {
			return nil, fmt.Errorf("error while adding row %d: %v", i, err)
		}
	}
	lp.SetObjFn(m.Scores.RawVector().Data)
	lp.SetMaximize()
	return lp, nil
}

func (LPSolve) Solve(m *Model) ([]float64, error) {
	if m.NumCols() == 0 {
		return nil, nil
	}
	lp, err := defLPSolveModel(m)
	if err != nil {
		return nil, err
	}
	if status := lp.Solve(); status != golp.OPTIMAL {
		return nil, fmt.Errorf("status: %v", status)
	}
	return lp.Variables(), nil
}
