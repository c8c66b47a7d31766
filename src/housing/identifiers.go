package housing

import (
	"math/rand/v2"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// IDAllocator hands out identifiers that are unique for its lifetime. Allocators are not
// safe for concurrent use; the generator creates fresh ones for every run.
type IDAllocator interface {
	Next() string
}

// IDScheme builds the allocators of one generation run.
type IDScheme string

const (
	IDCounter    IDScheme = "counter"
	IDRandomPool IDScheme = "random"
	IDUUID       IDScheme = "uuid"
)

// personIDOffset keeps sequential person ids away from the group id range.
const personIDOffset = 100000

// Allocators returns the group and person allocators of the scheme.
func (s IDScheme) Allocators(rng *rand.Rand) (groups, people IDAllocator) {
	switch s {
	case IDRandomPool:
		return NewCounter(1), NewRandomPool(rng, personIDOffset, 10*personIDOffset)
	case IDUUID:
		return NewUUIDTokens(), NewUUIDTokens()
	default:
		return NewCounter(1), NewCounter(personIDOffset)
	}
}

// Counter is a running counter.
type Counter struct {
	next int
}

func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() string {
	id := strconv.Itoa(c.next)
	c.next++
	return id
}

// RandomPool draws numbers from [lo, hi). A draw that is already taken moves forward
// (wrapping) until it finds a free value.
type RandomPool struct {
	rng   *rand.Rand
	lo    int
	hi    int
	taken mapset.Set[int]
}

func NewRandomPool(rng *rand.Rand, lo, hi int) *RandomPool {
	return &RandomPool{
		rng:   rng,
		lo:    lo,
		hi:    hi,
		taken: mapset.NewThreadUnsafeSet[int](),
	}
}

// Next panics once the pool is exhausted.
func (p *RandomPool) Next() string {
	span := p.hi - p.lo
	if p.taken.Cardinality() >= span {
		panic("housing: random id pool exhausted")
	}
	v := p.lo + p.rng.IntN(span)
	for p.taken.Contains(v) {
		v++
		if v >= p.hi {
			v = p.lo
		}
	}
	p.taken.Add(v)
	return strconv.Itoa(v)
}

// UUIDTokens allocates random uuid tokens, re-drawing on the (unlikely) repeat.
type UUIDTokens struct {
	taken mapset.Set[string]
}

func NewUUIDTokens() *UUIDTokens {
	return &UUIDTokens{taken: mapset.NewThreadUnsafeSet[string]()}
}

func (u *UUIDTokens) Next() string {
	for {
		id := uuid.NewString()
		if u.taken.Add(id) {
			return id
		}
	}
}
