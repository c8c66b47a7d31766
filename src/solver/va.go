package solver

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/dnaeon/go-priorityqueue.v1"

	"house_assignment/src/housing"
)

// VaStats counts how many groups each stage of Va placed.
type VaStats struct {
	FirstChoice int
	Program     int
	Fallback    int
	Unassigned  int
}

// SolveVa places groups in three stages: first choices in group order while they fit,
// then an assignment program over the leftovers, then each remaining group takes its
// alternate or else the roomiest house that still fits.
func (s *Solver) SolveVa(inst *Instance) (housing.Result, VaStats, error) {
	var stats VaStats
	result := make(housing.Result, len(inst.Groups))
	room := make([]int, len(inst.Capacity))
	copy(room, inst.Capacity)

	assign := func(gi, hi int) {
		result[inst.Groups[gi].ID] = inst.Houses[hi].ID
		room[hi] -= inst.Groups[gi].Size
	}

	leftovers := NewQueue[int]()
	for gi := range inst.Groups {
		g := &inst.Groups[gi]
		result[g.ID] = ""
		if len(g.Preferences) == 0 {
			leftovers.Push(gi)
			continue
		}
		hi, ok := inst.houseIndex[g.Preferences[0]]
		if ok && g.Size <= room[hi] {
			assign(gi, hi)
			stats.FirstChoice++
		} else {
			leftovers.Push(gi)
		}
	}

	if leftovers.Size() > 0 {
		groups := leftovers.Drain()
		model := inst.defModel(groups, room)
		s.Logger.Debug("va program", zap.Int("groups", len(groups)), zap.Int("columns", model.NumCols()))
		values, err := s.Backend.Solve(model)
		if err != nil {
			return nil, stats, fmt.Errorf("va program: %w", err)
		}
		picked := model.chosen(values)
		for _, gi := range groups {
			hi, ok := picked[gi]
			if ok && inst.Groups[gi].Size <= room[hi] {
				assign(gi, hi)
				stats.Program++
			} else {
				leftovers.Push(gi)
			}
		}
	}

	if leftovers.Size() > 0 {
		roomiest := priorityqueue.New[int, int64](priorityqueue.MaxHeap)
		for hi, r := range room {
			roomiest.Put(hi, int64(r))
		}
		for leftovers.Size() > 0 {
			gi := leftovers.Pop()
			g := &inst.Groups[gi]
			if hi, ok := inst.houseIndex[g.Alternate]; ok && g.Size <= room[hi] {
				assign(gi, hi)
				roomiest.Update(hi, int64(room[hi]))
				stats.Fallback++
				continue
			}
			if roomiest.Len() == 0 {
				stats.Unassigned++
				continue
			}
			top := roomiest.Get()
			if g.Size <= room[top.Value] {
				assign(gi, top.Value)
				stats.Fallback++
			} else {
				stats.Unassigned++
			}
			roomiest.Put(top.Value, int64(room[top.Value]))
		}
	}

	s.Logger.Debug("va done",
		zap.Int("first_choice", stats.FirstChoice),
		zap.Int("program", stats.Program),
		zap.Int("fallback", stats.Fallback),
		zap.Int("unassigned", stats.Unassigned))
	return result, stats, nil
}
