package solver

import (
	"fmt"
	"slices"

	"github.com/lanl/highs"
)

type Highs struct{}

func defHighsModel(m *Model) *highs.Model {
	numCols := m.NumCols()
	lp := new(highs.Model)
	lp.Maximize = true

	lp.VarTypes = make([]highs.VariableType, numCols)
	lp.ColLower = make([]float64, numCols)
	lp.ColUpper = make([]float64, numCols)
	for j := range numCols {
		lp.VarTypes[j] = highs.IntegerType
		lp.ColUpper[j] = 1
	}
	lp.ColCosts = slices.Clone(m.Scores.RawVector().Data)

	for i, row := range m.Rows {
		for _, e := range row {
			lp.ConstMatrix = append(lp.ConstMatrix, highs.Nonzero{Row: i, Col: e.Col, Val: e.Val})
		}
	}
	lp.RowLower = make([]float64, len(m.Rows))
	lp.RowUpper = slices.Clone(m.Upper.RawVector().Data)
	return lp
}

func (Highs) Solve(m *Model) ([]float64, error) {
	if m.NumCols() == 0 {
		return nil, nil
	}
	solution, err := defHighsModel(m).Solve()
	if err != nil {
		return nil, err
	}
	if solution.Status != highs.Optimal {
		return nil, fmt.Errorf("status: %v", solution.Status.String())
	}
	return solution.ColumnPrimal[:m.NumCols()], nil
}
