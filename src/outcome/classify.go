package outcome

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"house_assignment/src/housing"
)

// Bucket is where an assigned group lands relative to its stated preferences.
type Bucket int

const (
	Rank1 Bucket = iota
	Rank2
	Rank3
	Rank4
	Rank5
	AlternateMatch
	Unranked
	NumBuckets
)

var bucketNames = [NumBuckets]string{"rank1", "rank2", "rank3", "rank4", "rank5", "subPref", "unranked"}

func (b Bucket) String() string {
	if b < 0 || b >= NumBuckets {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// RankBucket returns the bucket of the 0-based preference index i.
func RankBucket(i int) Bucket {
	return Rank1 + Bucket(i)
}

// ClassifyGroup places an assignment of g to houseID. The alternate only counts when it
// is not also ranked, so the buckets never overlap.
func ClassifyGroup(g *housing.Group, houseID string) Bucket {
	i := g.Rank(houseID)
	if i >= 0 && i < housing.MaxRank {
		return RankBucket(i)
	}
	if i < 0 && g.Alternate != "" && g.Alternate == houseID {
		return AlternateMatch
	}
	return Unranked
}

type Counts [NumBuckets]int

func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Weighting selects which counts a report reads.
type Weighting int

const (
	ByPeople Weighting = iota
	ByGroups
)

func (w Weighting) String() string {
	if w == ByGroups {
		return "groups"
	}
	return "people"
}

func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "", "people":
		return ByPeople, nil
	case "groups":
		return ByGroups, nil
	}
	return ByPeople, fmt.Errorf("unknown weighting %q", s)
}

// RankSummary partitions the assigned groups into buckets, counted both per group and
// per person. Unassigned groups are kept outside the partition.
type RankSummary struct {
	Groups Counts
	People Counts

	UnassignedGroups int
	UnassignedPeople int

	TotalGroups int
	TotalPeople int
}

// Classify is a pure function of its inputs and never fails: a nil result leaves every
// group unassigned.
func Classify(snap *housing.Snapshot, result housing.Result) RankSummary {
	var s RankSummary
	for i := range snap.Groups {
		g := &snap.Groups[i]
		s.TotalGroups++
		s.TotalPeople += g.Size

		houseID, ok := result.Assigned(g.ID)
		if !ok {
			s.UnassignedGroups++
			s.UnassignedPeople += g.Size
			continue
		}
		b := ClassifyGroup(g, houseID)
		s.Groups[b]++
		s.People[b] += g.Size
	}
	return s
}

func (s RankSummary) Counts(w Weighting) Counts {
	if w == ByGroups {
		return s.Groups
	}
	return s.People
}

func (s RankSummary) Total(w Weighting) int {
	if w == ByGroups {
		return s.TotalGroups
	}
	return s.TotalPeople
}

// Percent is the share of bucket b over the whole population, assigned or not.
func (s RankSummary) Percent(b Bucket, w Weighting) float64 {
	return percent(s.Counts(w)[b], s.Total(w))
}

func percent[T constraints.Integer | constraints.Float](part, total T) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
