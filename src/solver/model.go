package solver

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"house_assignment/src/housing"
)

// score returns the preference points of giving house h to group g, or false when h
// is neither ranked nor the alternate.
func score(g *housing.Group, houseID string) (float64, bool) {
	for rank, id := range g.Preferences {
		if rank >= len(PrefScores) {
			break
		}
		if id == houseID {
			return PrefScores[rank], true
		}
	}
	if g.Alternate != "" && g.Alternate == houseID {
		return SubPrefScore, true
	}
	return 0, false
}

// defModel builds the assignment program for the given groups over the remaining
// room of each house. A group may take at most one of its ranked or alternate houses.
func (inst *Instance) defModel(groups []int, room []int) *Model {
	var columns []Column
	var scores []float64
	var groupRows [][]Entry
	houseRows := make([][]Entry, len(inst.Houses))

	for _, gi := range groups {
		g := &inst.Groups[gi]
		var row []Entry
		seen := make(map[int]bool)
		n := min(len(g.Preferences), housing.MaxRank)
		candidates := append(slices.Clip(g.Preferences[:n]), g.Alternate)
		for _, houseID := range candidates {
			hi, ok := inst.houseIndex[houseID]
			if !ok || seen[hi] || g.Size > room[hi] {
				continue
			}
			seen[hi] = true
			s, _ := score(g, houseID)
			col := len(columns)
			columns = append(columns, Column{Group: gi, House: hi})
			scores = append(scores, s)
			row = append(row, Entry{Col: col, Val: 1})
			houseRows[hi] = append(houseRows[hi], Entry{Col: col, Val: float64(g.Size)})
		}
		if len(row) > 0 {
			groupRows = append(groupRows, row)
		}
	}

	m := &Model{Columns: columns}
	if len(columns) == 0 {
		return m
	}
	m.Scores = mat.NewVecDense(len(columns), scores)

	var upper []float64
	for range groupRows {
		upper = append(upper, 1)
	}
	m.Rows = groupRows
	for hi, row := range houseRows {
		if len(row) == 0 {
			continue
		}
		m.Rows = append(m.Rows, row)
		upper = append(upper, float64(room[hi]))
	}
	m.Upper = mat.NewVecDense(len(upper), upper)
	return m
}

// chosen maps each model group to the house index picked by the backend.
func (m *Model) chosen(values []float64) map[int]int {
	out := make(map[int]int)
	for j, v := range values {
		if j >= len(m.Columns) || v < 0.5 {
			continue
		}
		c := m.Columns[j]
		if _, ok := out[c.Group]; !ok {
			out[c.Group] = c.House
		}
	}
	return out
}
