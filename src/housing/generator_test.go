package housing

import (
	"encoding/json"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPopulationInvariants(t *testing.T, snap *Snapshot) {
	t.Helper()
	require.NoError(t, snap.Validate())
	people := mapset.NewThreadUnsafeSet[string]()
	for _, g := range snap.Groups {
		assert.GreaterOrEqual(t, len(g.Preferences), 1)
		assert.LessOrEqual(t, len(g.Preferences), MaxRank)
		assert.Equal(t, len(g.Preferences), mapset.NewThreadUnsafeSet(g.Preferences...).Cardinality(), "group %s ranks a house twice", g.ID)
		if g.Alternate != "" {
			assert.NotContains(t, g.Preferences, g.Alternate)
			h, ok := snap.House(g.Alternate)
			require.True(t, ok)
			assert.True(t, h.Size.IsLarge())
		}
		assert.True(t, people.Add(g.OwnerID), "owner %s reused", g.OwnerID)
		for _, m := range g.MemberIDs {
			assert.True(t, people.Add(m), "member %s reused", m)
		}
	}
}

func TestGenerateSynthetic(t *testing.T) {
	gen := NewGenerator()
	snap, err := gen.Generate(newTestRand(), 2000)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 2000)
	require.Len(t, snap.Houses, 22)
	assertPopulationInvariants(t, snap)

	cats := DefaultCategories()
	for _, h := range snap.Houses {
		cat := cats[h.Size]
		assert.Zero(t, h.Max%cat.Divisor, "house %s", h.ID)
		assert.Zero(t, h.Min%cat.Divisor, "house %s", h.ID)
		assert.LessOrEqual(t, h.Max, cat.High)
		assert.LessOrEqual(t, h.Min, h.Max)
	}

	totals := snap.Totals()
	assert.Equal(t, 10, totals.HousesBySize[SizeS])
	assert.Equal(t, 2, totals.HousesBySize[SizeXXL])
	for _, g := range snap.Groups {
		assert.GreaterOrEqual(t, g.Size, 1)
		assert.LessOrEqual(t, g.Size, 3)
	}
}

func TestGenerateSizeMismatchFailsFast(t *testing.T) {
	gen := NewGenerator()
	gen.Catalog = NewSyntheticCatalog(20)
	snap, err := gen.Generate(newTestRand(), 10)
	require.ErrorIs(t, err, ErrSizeDistributionMismatch)
	assert.Nil(t, snap)
}

func TestGenerateRejectsBadParameters(t *testing.T) {
	gen := NewGenerator()
	gen.MaxRank = 6
	_, err := gen.Generate(newTestRand(), 10)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	gen = NewGenerator()
	_, err = gen.Generate(newTestRand(), -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGenerateSizeWeightedUUID(t *testing.T) {
	gen := NewGenerator()
	gen.Preferences = SizeWeighted{Weights: DefaultSizeWeights()}
	gen.IDs = IDUUID
	snap, err := gen.Generate(newTestRand(), 500)
	require.NoError(t, err)
	assertPopulationInvariants(t, snap)
}

func TestGenerateFixedCatalog(t *testing.T) {
	gen := NewGenerator()
	gen.Catalog = NewFixedCatalog()
	gen.IDs = IDRandomPool
	gen.Reconcile = false
	snap, err := gen.Generate(newTestRand(), 300)
	require.NoError(t, err)
	require.Len(t, snap.Houses, 22)
	assertPopulationInvariants(t, snap)

	for i := 1; i < len(snap.Houses); i++ {
		assert.LessOrEqual(t, snap.Houses[i-1].Size, snap.Houses[i].Size)
	}
}

func TestGenerateFixedCatalogKeepsCapacities(t *testing.T) {
	gen := NewGenerator()
	gen.Catalog = NewFixedCatalog()
	require.True(t, gen.Reconcile)

	// Far more members than the catalog holds, so reconciliation would grow houses.
	snap, err := gen.Generate(newTestRand(), 4000)
	require.NoError(t, err)

	want := make(map[string]House)
	for _, h := range DefaultFixedHouses() {
		want[h.ID] = h
	}
	require.Len(t, snap.Houses, len(want))
	for _, h := range snap.Houses {
		assert.Equal(t, want[h.ID], h, h.Name)
	}
}

func TestSizeWeightedFallsBackWhenCategoryExhausted(t *testing.T) {
	houses := []House{
		{ID: "a", Size: SizeXXL, Max: 10},
		{ID: "b", Size: SizeS, Max: 10},
		{ID: "c", Size: SizeS, Max: 10},
	}
	sampler := SizeWeighted{Weights: map[Size]int{SizeXXL: 1}}
	rng := newTestRand()
	for range 100 {
		prefs := sampler.Sample(rng, houses, 3)
		require.Len(t, prefs, 3)
		assert.Equal(t, "a", prefs[0])
		assert.ElementsMatch(t, []string{"a", "b", "c"}, prefs)
	}
}

func TestRandomPoolSkipsTakenValues(t *testing.T) {
	pool := NewRandomPool(newTestRand(), 10, 15)
	seen := mapset.NewThreadUnsafeSet[string]()
	for range 5 {
		assert.True(t, seen.Add(pool.Next()))
	}
	assert.Panics(t, func() { pool.Next() })
}

func TestGroupWireShape(t *testing.T) {
	data, err := json.Marshal(Group{ID: "1", OwnerID: "100000", Size: 1, Preferences: []string{"3", "1"}, Alternate: "20"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","owner_id":"100000","member_ids":[],"size":1,"preference":["3","1"],"subPreference":["20"]}`, string(data))

	var back Group
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "20", back.Alternate)
}

func TestSnapshotJSONKeepsHouseOrder(t *testing.T) {
	snap, err := NewGenerator().Generate(newTestRand(), 5)
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, snap.Houses, back.Houses)
	assert.Equal(t, snap.Groups, back.Groups)
}

func TestValidateRejectsRankedAlternate(t *testing.T) {
	snap := NewSnapshot(
		[]Group{{ID: "1", OwnerID: "p", Size: 1, Preferences: []string{"10"}, Alternate: "10"}},
		[]House{{ID: "10", Size: SizeXL, Max: 500}},
	)
	assert.ErrorIs(t, snap.Validate(), ErrInvalidSnapshot)
}
