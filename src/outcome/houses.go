package outcome

import (
	"fmt"
	"strings"

	"house_assignment/src/housing"
)

// HouseUsage is what a house actually received under one result. ByBucket counts
// people by the rank at which they got the house.
type HouseUsage struct {
	House       housing.House
	Groups      int
	People      int
	ByBucket    Counts
	UsedPercent float64
}

// Utilization reports received people per house, in snapshot order. Assignments to
// houses outside the snapshot are ignored here.
func Utilization(snap *housing.Snapshot, result housing.Result) []HouseUsage {
	usage := make([]HouseUsage, len(snap.Houses))
	index := make(map[string]int, len(snap.Houses))
	for i, h := range snap.Houses {
		usage[i].House = h
		index[h.ID] = i
	}
	for gi := range snap.Groups {
		g := &snap.Groups[gi]
		houseID, ok := result.Assigned(g.ID)
		if !ok {
			continue
		}
		i, ok := index[houseID]
		if !ok {
			continue
		}
		usage[i].Groups++
		usage[i].People += g.Size
		usage[i].ByBucket[ClassifyGroup(g, houseID)] += g.Size
	}
	for i := range usage {
		usage[i].UsedPercent = percent(usage[i].People, usage[i].House.Max)
	}
	return usage
}

// HouseDemand is how often a house was requested, from the stated preferences alone.
// Only the rank buckets and AlternateMatch are used.
type HouseDemand struct {
	House  housing.House
	Groups Counts
	People Counts
}

func Demand(snap *housing.Snapshot) []HouseDemand {
	demand := make([]HouseDemand, len(snap.Houses))
	index := make(map[string]int, len(snap.Houses))
	for i, h := range snap.Houses {
		demand[i].House = h
		index[h.ID] = i
	}
	add := func(houseID string, b Bucket, size int) {
		if i, ok := index[houseID]; ok {
			demand[i].Groups[b]++
			demand[i].People[b] += size
		}
	}
	for _, g := range snap.Groups {
		for rank, houseID := range g.Preferences {
			if rank >= housing.MaxRank {
				break
			}
			add(houseID, RankBucket(rank), g.Size)
		}
		if g.Alternate != "" {
			add(g.Alternate, AlternateMatch, g.Size)
		}
	}
	return demand
}

// HousesReport renders utilization of both results side by side. Either may be nil.
func HousesReport(snap *housing.Snapshot, a, b housing.Result) string {
	var usageA, usageB []HouseUsage
	if a != nil {
		usageA = Utilization(snap, a)
	}
	if b != nil {
		usageB = Utilization(snap, b)
	}
	s := new(strings.Builder)
	fmt.Fprintf(s, "%-38s %-4s %6s %6s %8s %8s %8s %8s\n", "house", "size", "min", "max", "Va", "Va %", "Vb", "Vb %")
	for i, h := range snap.Houses {
		label := h.ID
		if h.Name != "" {
			label = h.Name
		}
		va, vaPct, vb, vbPct := "-", "-", "-", "-"
		if usageA != nil {
			va = fmt.Sprint(usageA[i].People)
			vaPct = fmt.Sprintf("%.2f", usageA[i].UsedPercent)
		}
		if usageB != nil {
			vb = fmt.Sprint(usageB[i].People)
			vbPct = fmt.Sprintf("%.2f", usageB[i].UsedPercent)
		}
		fmt.Fprintf(s, "%-38s %-4v %6d %6d %8s %8s %8s %8s\n", label, h.Size, h.Min, h.Max, va, vaPct, vb, vbPct)
	}
	return s.String()
}
