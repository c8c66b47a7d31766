package housing

import (
	"fmt"
	"slices"
)

// reconcileRounds bounds the pass to this many visits per house.
const reconcileRounds = 20

type ReconcileReport struct {
	TotalMembers  int
	TotalCapacity int
	Iterations    int
	Grown         int
	Sufficient    bool
}

func (r ReconcileReport) String() string {
	return fmt.Sprintf("members=%d capacity=%d iterations=%d grown=%d sufficient=%v",
		r.TotalMembers, r.TotalCapacity, r.Iterations, r.Grown, r.Sufficient)
}

// Reconcile grows house ceilings round-robin, one divisor at a time and never past the
// category's upper bound, until they can hold every group member or the iteration
// budget of 20 visits per house runs out. The input slice is left untouched.
func Reconcile(groups []Group, houses []House, categories map[Size]SizeCategory) ([]House, ReconcileReport) {
	grown := slices.Clone(houses)
	report := ReconcileReport{}
	for _, g := range groups {
		report.TotalMembers += g.Size
	}
	for _, h := range grown {
		report.TotalCapacity += h.Max
	}

	maxIterations := len(grown) * reconcileRounds
	for report.TotalCapacity < report.TotalMembers && report.Iterations < maxIterations {
		h := &grown[report.Iterations%len(grown)]
		report.Iterations++

		cat, ok := categories[h.Size]
		if !ok || cat.Divisor <= 0 {
			continue
		}
		newMax := h.Max + cat.Divisor
		if newMax > cat.High {
			continue
		}
		h.Max = newMax
		report.TotalCapacity += cat.Divisor
		report.Grown++
		if h.Min > h.Max {
			h.Min = h.Max - cat.Divisor
		}
	}
	report.Sufficient = report.TotalCapacity >= report.TotalMembers
	return grown, report
}
