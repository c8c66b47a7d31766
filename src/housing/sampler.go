package housing

import (
	legacyrand "math/rand"
	"math/rand/v2"

	"github.com/mroth/weightedrand/v2"
)

// MaxRank is the longest ranked preference list a group can state.
const MaxRank = 5

// rankWeights is {1: .0125, 2: .0125, 3: .0125, 4: .0125, 5: .95} scaled to integers.
var rankWeights = [MaxRank]int{125, 125, 125, 125, 9500}

// SampleStatedPreferenceCount draws how many houses a group ranks, in [1, maxRank].
func SampleStatedPreferenceCount(rng *rand.Rand, maxRank int) int {
	choices := make([]weightedrand.Choice[int, int], 0, MaxRank)
	for rank := 1; rank <= min(maxRank, MaxRank); rank++ {
		choices = append(choices, weightedrand.NewChoice(rank, rankWeights[rank-1]))
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return maxRank
	}
	return chooser.PickSource(legacy(rng))
}

// SampleDivisibleValue draws a multiple of divisor in [lo, hi]. When no multiple fits it
// returns divisor itself.
func SampleDivisibleValue(rng *rand.Rand, lo, hi, divisor int) int {
	start := ceilDiv(lo, divisor)
	end := floorDiv(hi, divisor)
	if end < start {
		return divisor
	}
	return (start + rng.IntN(end-start+1)) * divisor
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// legacySource lets the weighted choosers, which take a math/rand generator, draw from
// the same stream as the rest of the generation.
type legacySource struct {
	rng *rand.Rand
}

func (s legacySource) Int63() int64 {
	return s.rng.Int64()
}

func (s legacySource) Uint64() uint64 {
	return s.rng.Uint64()
}

func (legacySource) Seed(int64) {}

func legacy(rng *rand.Rand) *legacyrand.Rand {
	return legacyrand.New(legacySource{rng: rng})
}
