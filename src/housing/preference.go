package housing

import (
	"math/rand/v2"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mroth/weightedrand/v2"
)

// PreferenceSampler picks n distinct house ids, most preferred first.
type PreferenceSampler interface {
	Sample(rng *rand.Rand, houses []House, n int) []string
}

func shuffledIDs(rng *rand.Rand, houses []House) []string {
	ids := make([]string, len(houses))
	for i, h := range houses {
		ids[i] = h.ID
	}
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// UniformShuffle ranks a random prefix of the houses, ignoring size and capacity.
type UniformShuffle struct{}

func (UniformShuffle) Sample(rng *rand.Rand, houses []House, n int) []string {
	ids := shuffledIDs(rng, houses)
	return ids[:min(n, len(ids))]
}

// SizeWeighted fills every slot by first drawing a size category by weight and then a
// house of that category that was not chosen yet. An exhausted category falls back to
// any remaining house.
type SizeWeighted struct {
	Weights map[Size]int
}

func DefaultSizeWeights() map[Size]int {
	return map[Size]int{
		SizeS:   10,
		SizeM:   15,
		SizeL:   20,
		SizeXL:  25,
		SizeXXL: 30,
	}
}

func (w SizeWeighted) Sample(rng *rand.Rand, houses []House, n int) []string {
	n = min(n, len(houses))
	if n <= 0 {
		return []string{}
	}

	choices := make([]weightedrand.Choice[Size, int], 0, len(Sizes))
	for _, size := range Sizes {
		if weight := w.Weights[size]; weight > 0 {
			choices = append(choices, weightedrand.NewChoice(size, weight))
		}
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return UniformShuffle{}.Sample(rng, houses, n)
	}

	src := legacy(rng)
	chosen := mapset.NewThreadUnsafeSet[string]()
	prefs := make([]string, 0, n)
	for len(prefs) < n {
		size := chooser.PickSource(src)
		pool := make([]string, 0, len(houses))
		for _, h := range houses {
			if h.Size == size && !chosen.Contains(h.ID) {
				pool = append(pool, h.ID)
			}
		}
		if len(pool) == 0 {
			for _, h := range houses {
				if !chosen.Contains(h.ID) {
					pool = append(pool, h.ID)
				}
			}
		}
		id := pool[rng.IntN(len(pool))]
		chosen.Add(id)
		prefs = append(prefs, id)
	}
	return prefs
}

// alternates returns up to n large houses that are not already ranked.
func alternates(rng *rand.Rand, houses []House, ranked []string, n int) []string {
	pool := make([]string, 0, len(houses))
	for _, h := range houses {
		if h.Size.IsLarge() && !slices.Contains(ranked, h.ID) {
			pool = append(pool, h.ID)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:min(n, len(pool))]
}
