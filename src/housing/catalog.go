package housing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrSizeDistributionMismatch = errors.New("house count does not match the size distribution")

// HouseCatalogProvider supplies the houses of a generation run.
type HouseCatalogProvider interface {
	Houses(rng *rand.Rand) ([]House, error)
}

// fixedCapacity is implemented by catalogs whose capacities must not be grown by the
// reconciliation pass.
type fixedCapacity interface {
	FixedCapacity() bool
}

func reconcilable(c HouseCatalogProvider) bool {
	f, ok := c.(fixedCapacity)
	return !ok || !f.FixedCapacity()
}

type DistributionEntry struct {
	Size  Size `yaml:"size"`
	Count int  `yaml:"count"`
}

// DefaultDistribution is the 22-house mix: 10 S, 3 M, 4 L, 3 XL, 2 XXL.
func DefaultDistribution() []DistributionEntry {
	return []DistributionEntry{
		{Size: SizeS, Count: 10},
		{Size: SizeM, Count: 3},
		{Size: SizeL, Count: 4},
		{Size: SizeXL, Count: 3},
		{Size: SizeXXL, Count: 2},
	}
}

// SyntheticCatalog draws the capacity band of every house from its size category.
type SyntheticCatalog struct {
	Categories   map[Size]SizeCategory
	Distribution []DistributionEntry
	NumHouses    int
}

func NewSyntheticCatalog(numHouses int) *SyntheticCatalog {
	return &SyntheticCatalog{
		Categories:   DefaultCategories(),
		Distribution: DefaultDistribution(),
		NumHouses:    numHouses,
	}
}

func (c *SyntheticCatalog) expand() ([]SizeCategory, error) {
	sizes := make([]SizeCategory, 0, c.NumHouses)
	for _, entry := range c.Distribution {
		cat, ok := c.Categories[entry.Size]
		if !ok {
			return nil, fmt.Errorf("no capacity band for size %v", entry.Size)
		}
		if cat.Divisor <= 0 {
			return nil, fmt.Errorf("size %v has divisor %d", entry.Size, cat.Divisor)
		}
		for range entry.Count {
			sizes = append(sizes, cat)
		}
	}
	if len(sizes) != c.NumHouses {
		return nil, fmt.Errorf("%w: requested %d houses, distribution has %d", ErrSizeDistributionMismatch, c.NumHouses, len(sizes))
	}
	return sizes, nil
}

func (c *SyntheticCatalog) Houses(rng *rand.Rand) ([]House, error) {
	sizes, err := c.expand()
	if err != nil {
		return nil, err
	}
	houses := make([]House, len(sizes))
	for i, cat := range sizes {
		minCap := SampleDivisibleValue(rng, cat.Low, cat.High, cat.Divisor)
		houses[i] = House{
			ID:   strconv.Itoa(i + 1),
			Size: cat.Size,
			Min:  minCap,
			Max:  SampleDivisibleValue(rng, minCap, cat.High, cat.Divisor),
		}
	}
	return houses, nil
}

// FixedCatalog serves a predetermined list of named houses, ordered by size and then by
// name.
type FixedCatalog struct {
	Catalog []House
}

func (c *FixedCatalog) Houses(_ *rand.Rand) ([]House, error) {
	if len(c.Catalog) == 0 {
		return nil, errors.New("fixed catalog is empty")
	}
	houses := slices.Clone(c.Catalog)
	col := collate.New(language.Thai)
	slices.SortStableFunc(houses, func(a, b House) int {
		if a.Size != b.Size {
			return int(a.Size) - int(b.Size)
		}
		return col.CompareString(a.Name, b.Name)
	})
	return houses, nil
}

// FixedCapacity reports true: named houses keep their published capacities.
func (c *FixedCatalog) FixedCapacity() bool {
	return true
}

func NewFixedCatalog() *FixedCatalog {
	return &FixedCatalog{Catalog: DefaultFixedHouses()}
}

// DefaultFixedHouses is the production house list.
func DefaultFixedHouses() []House {
	return []House{
		{ID: "1bb43696-787b-4c9a-90ad-51cf4390bfd6", Name: "บ้านแจ๋ว", Size: SizeL, Max: 357},
		{ID: "b276fca1-8b36-4738-8547-3aaa55fe8689", Name: "บ้านว้อนท์", Size: SizeS, Max: 96},
		{ID: "c0352bc8-c31e-4465-91cc-4c787fbb4f85", Name: "บ้านอะอึ๋ม", Size: SizeM, Max: 252},
		{ID: "a6147263-ae32-49ea-ad4c-90de9771285e", Name: "บ้านสด", Size: SizeL, Max: 324},
		{ID: "d847864e-8ae1-4cad-bc14-96c1a4effde7", Name: "บ้านโจ๋", Size: SizeXL, Max: 792},
		{ID: "ec32f239-62ee-4d06-980a-7419d1d97c1a", Name: "บ้านดัง", Size: SizeS, Max: 90},
		{ID: "e15b02fc-512b-448f-8b3c-44cc66f7ed4d", Name: "บ้านโบ้", Size: SizeS, Max: 129},
		{ID: "c9e0911d-7da7-4cf0-bd90-7258b61800b3", Name: "บ้านจิ๊จ๊ะ", Size: SizeM, Max: 204},
		{ID: "36406fe8-a46c-4b0b-9fb1-d5ef884887e7", Name: "บ้านคุณหนู", Size: SizeS, Max: 123},
		{ID: "369c4dee-9801-4ca3-87b3-0f02eccdba82", Name: "บ้านเดอะ", Size: SizeS, Max: 114},
		{ID: "42b8ba2d-2b8e-4af2-aedc-90a9585f674a", Name: "บ้านนอก", Size: SizeM, Max: 183},
		{ID: "ccb06a46-b1f6-48a6-9db4-06c4edd25f1b", Name: "บ้านคุ้ม", Size: SizeXL, Max: 532},
		{ID: "b69d5f22-be47-4f8a-8d19-40691e459f58", Name: "บ้านโจ๊ะเด๊ะ ฮือซา", Size: SizeL, Max: 297},
		{ID: "c3328999-f5ce-447c-9eea-e4ea947ffd42", Name: "บ้านแรงส์", Size: SizeXXL, Max: 888},
		{ID: "211534f4-0d0c-456a-b2f5-57668bf3e1f5", Name: "บ้านเฮา", Size: SizeL, Max: 357},
		{ID: "872d0358-4445-4577-ab9d-11d331f20344", Name: "บ้านยิ้ม", Size: SizeXXL, Max: 804},
		{ID: "c35b0b14-cc12-446c-b2f7-aced8d488b13", Name: "บ้านหลายใจ", Size: SizeS, Max: 135},
		{ID: "69ce3a43-c983-464b-ad59-c4d3df910211", Name: "บ้านเอช้วน", Size: SizeM, Max: 246},
		{ID: "b6afe011-9210-4cb3-ab5b-57d352ce5ec9", Name: "บ้านคิดส์", Size: SizeM, Max: 210},
		{ID: "2ce57f3c-8893-455f-9d49-b6bf1c058a93", Name: "บ้านอากาเป้", Size: SizeS, Max: 96},
		{ID: "44df755d-f347-4ed4-a63d-69be588ff2df", Name: "บ้านโซ้ยตี๋หลีหมวย", Size: SizeXL, Max: 784},
		{ID: "e974a47c-fa09-44d2-9691-14f84fe2d9d1", Name: "บ้านโคะ", Size: SizeS, Max: 123},
	}
}
