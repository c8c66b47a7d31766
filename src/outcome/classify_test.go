package outcome

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"house_assignment/src/housing"
)

func scenarioSnapshot() *housing.Snapshot {
	return housing.NewSnapshot(
		[]housing.Group{
			{ID: "1", OwnerID: "p1", Size: 1, Preferences: []string{"10", "20", "30"}},
			{ID: "2", OwnerID: "p2", MemberIDs: []string{"p3"}, Size: 2, Preferences: []string{"10", "20"}, Alternate: "30"},
			{ID: "3", OwnerID: "p4", MemberIDs: []string{"p5", "p6"}, Size: 3, Preferences: []string{"10", "20"}, Alternate: "30"},
			{ID: "4", OwnerID: "p7", Size: 1, Preferences: []string{"20"}},
		},
		[]housing.House{
			{ID: "10", Size: housing.SizeS, Max: 150},
			{ID: "20", Size: housing.SizeM, Max: 240},
			{ID: "30", Size: housing.SizeXL, Max: 540},
		},
	)
}

func TestClassifySecondChoice(t *testing.T) {
	snap := scenarioSnapshot()
	s := Classify(snap, housing.Result{"1": "20"})
	assert.Equal(t, 1, s.Groups[Rank2])
	assert.Equal(t, 1, s.People[Rank2])
	assert.Equal(t, 1, s.Groups.Total())
	assert.Equal(t, 3, s.UnassignedGroups)
}

func TestClassifyAlternateMatch(t *testing.T) {
	s := Classify(scenarioSnapshot(), housing.Result{"2": "30"})
	assert.Equal(t, 1, s.Groups[AlternateMatch])
	assert.Equal(t, 2, s.People[AlternateMatch])
}

func TestClassifyUnranked(t *testing.T) {
	s := Classify(scenarioSnapshot(), housing.Result{"3": "99"})
	assert.Equal(t, 1, s.Groups[Unranked])
	assert.Equal(t, 3, s.People[Unranked])
}

func TestClassifyAlternateAlsoRankedPastMaxRank(t *testing.T) {
	g := &housing.Group{ID: "9", Size: 1, Preferences: []string{"1", "2", "3", "4", "5", "30"}, Alternate: "30"}
	assert.Equal(t, Unranked, ClassifyGroup(g, "30"))
	assert.Equal(t, Rank5, ClassifyGroup(g, "5"))
}

func TestClassifyTreatsEmptyAssignmentAsUnassigned(t *testing.T) {
	s := Classify(scenarioSnapshot(), housing.Result{"1": "", "2": "10"})
	assert.Equal(t, 3, s.UnassignedGroups)
	assert.Equal(t, 1+3+1, s.UnassignedPeople)
	assert.Equal(t, 1, s.Groups[Rank1])

	s = Classify(scenarioSnapshot(), nil)
	assert.Equal(t, 4, s.UnassignedGroups)
	assert.Zero(t, s.Groups.Total())
}

func TestClassifyPartitionsAssignedGroups(t *testing.T) {
	gen := housing.NewGenerator()
	snap, err := gen.Generate(rand.New(rand.NewPCG(7, 7)), 1000)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(8, 8))
	result := housing.Result{}
	assignedPeople := 0
	for i, g := range snap.Groups {
		if i%10 == 0 {
			continue
		}
		result[g.ID] = snap.Houses[rng.IntN(len(snap.Houses))].ID
		assignedPeople += g.Size
	}

	s := Classify(snap, result)
	assert.Equal(t, len(result), s.Groups.Total())
	assert.Equal(t, assignedPeople, s.People.Total())
	assert.Equal(t, len(snap.Groups), s.Groups.Total()+s.UnassignedGroups)

	again := Classify(snap, result)
	assert.Equal(t, s, again)
}

func TestClassifyPercent(t *testing.T) {
	s := Classify(scenarioSnapshot(), housing.Result{"1": "10", "2": "10", "3": "10"})
	assert.InDelta(t, 6.0/7*100, s.Percent(Rank1, ByPeople), 1e-9)
	assert.InDelta(t, 75.0, s.Percent(Rank1, ByGroups), 1e-9)
	assert.Zero(t, RankSummary{}.Percent(Rank1, ByPeople))
}

func TestCompare(t *testing.T) {
	snap := scenarioSnapshot()
	a := housing.Result{"1": "10", "2": "30", "3": "99"}
	b := housing.Result{"1": "10", "2": "10", "3": "10", "4": "20"}

	cmp := Compare(snap, a, b, ByGroups)
	require.Len(t, cmp.Rows, int(NumBuckets))
	assert.Equal(t, 1, cmp.Rows[Rank1].A)
	assert.Equal(t, 4, cmp.Rows[Rank1].B)
	assert.Equal(t, 3, cmp.Rows[Rank1].Diff)
	assert.Equal(t, -1, cmp.Rows[AlternateMatch].Diff)
	assert.Contains(t, cmp.String(), "subPref")

	only := Compare(snap, nil, b, ByPeople)
	assert.Nil(t, only.A)
	assert.Zero(t, only.Rows[Rank1].Diff)
	assert.Contains(t, only.String(), "-")
}

func TestUtilizationAndDemandStayApart(t *testing.T) {
	snap := scenarioSnapshot()
	usage := Utilization(snap, housing.Result{"1": "20", "2": "30", "3": "30"})
	require.Len(t, usage, 3)
	assert.Zero(t, usage[0].People)
	assert.Equal(t, 1, usage[1].People)
	assert.Equal(t, 1, usage[1].ByBucket[Rank2])
	assert.Equal(t, 5, usage[2].People)
	assert.Equal(t, 5, usage[2].ByBucket[AlternateMatch])
	assert.InDelta(t, 5.0/540*100, usage[2].UsedPercent, 1e-9)

	demand := Demand(snap)
	require.Len(t, demand, 3)
	assert.Equal(t, 3, demand[0].Groups[Rank1])
	assert.Equal(t, 6, demand[0].People[Rank1])
	assert.Equal(t, 1, demand[1].Groups[Rank1])
	assert.Equal(t, 3, demand[1].Groups[Rank2])
	assert.Equal(t, 1, demand[2].Groups[Rank3])
	assert.Equal(t, 5, demand[2].People[AlternateMatch])

	report := HousesReport(snap, nil, housing.Result{"1": "20"})
	assert.Contains(t, report, "0.42")
}
