package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func groupsOfSize(n, size int) []Group {
	groups := make([]Group, n)
	for i := range groups {
		groups[i] = Group{Size: size}
	}
	return groups
}

func TestReconcileGrowsUntilSufficient(t *testing.T) {
	houses := []House{
		{ID: "1", Size: SizeS, Min: 141, Max: 141},
		{ID: "2", Size: SizeS, Min: 141, Max: 141},
	}
	grown, report := Reconcile(groupsOfSize(100, 3), houses, DefaultCategories())

	assert.True(t, report.Sufficient)
	assert.Equal(t, 300, report.TotalMembers)
	assert.GreaterOrEqual(t, report.TotalCapacity, 300)
	assert.Equal(t, 141, houses[0].Max, "input must not change")
	for _, h := range grown {
		assert.Zero(t, h.Max%3)
		assert.LessOrEqual(t, h.Max, 160)
	}
}

func TestReconcileStopsAtBudget(t *testing.T) {
	houses := []House{
		{ID: "1", Size: SizeS, Min: 150, Max: 150},
		{ID: "2", Size: SizeXXL, Min: 1000, Max: 1000},
	}
	grown, report := Reconcile(groupsOfSize(1000, 3), houses, DefaultCategories())

	assert.False(t, report.Sufficient)
	assert.LessOrEqual(t, report.Iterations, len(houses)*20)
	assert.Equal(t, 159, grown[0].Max)
	assert.Equal(t, 1080, grown[1].Max, "house 2 gets every other visit")
}

func TestReconcileNoopWhenSufficient(t *testing.T) {
	houses := []House{{ID: "1", Size: SizeM, Min: 222, Max: 222}}
	grown, report := Reconcile(groupsOfSize(10, 2), houses, DefaultCategories())
	assert.True(t, report.Sufficient)
	assert.Zero(t, report.Iterations)
	assert.Equal(t, houses, grown)
}

func TestReconcileClampsMinimum(t *testing.T) {
	houses := []House{{ID: "1", Size: SizeS, Min: 160, Max: 150}}
	grown, _ := Reconcile(groupsOfSize(1, 200), houses, DefaultCategories())
	assert.Equal(t, 159, grown[0].Max)
	assert.Equal(t, 150, grown[0].Min)
}

func TestReconcileSkipsUnknownSizes(t *testing.T) {
	houses := []House{{ID: "1", Size: SizeL, Max: 10}}
	_, report := Reconcile(groupsOfSize(5, 3), houses, map[Size]SizeCategory{})
	assert.False(t, report.Sufficient)
	assert.Equal(t, 20, report.Iterations)
}
