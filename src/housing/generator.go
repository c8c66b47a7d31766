package housing

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

var ErrInvalidParameter = errors.New("invalid generator parameter")

// Generator builds a population of groups over a house catalog.
type Generator struct {
	Catalog     HouseCatalogProvider
	Preferences PreferenceSampler
	IDs         IDScheme

	MinMembers int
	MaxMembers int
	MaxRank    int
	Alternates int

	// Reconcile runs the capacity reconciliation pass with Categories after the groups
	// are drawn. Catalogs with fixed capacities are never reconciled.
	Reconcile  bool
	Categories map[Size]SizeCategory

	Logger *zap.Logger
}

// NewGenerator returns the synthetic 22-house setup with uniform preferences.
func NewGenerator() *Generator {
	return &Generator{
		Catalog:     NewSyntheticCatalog(22),
		Preferences: UniformShuffle{},
		IDs:         IDCounter,
		MinMembers:  1,
		MaxMembers:  3,
		MaxRank:     MaxRank,
		Alternates:  1,
		Reconcile:   true,
		Categories:  DefaultCategories(),
		Logger:      zap.NewNop(),
	}
}

func (g *Generator) check(numGroups int) error {
	switch {
	case numGroups < 0:
		return fmt.Errorf("%w: %d groups", ErrInvalidParameter, numGroups)
	case g.MinMembers < 1 || g.MaxMembers < g.MinMembers:
		return fmt.Errorf("%w: member range [%d, %d]", ErrInvalidParameter, g.MinMembers, g.MaxMembers)
	case g.MaxRank < 1 || g.MaxRank > MaxRank:
		return fmt.Errorf("%w: max rank %d", ErrInvalidParameter, g.MaxRank)
	case g.Alternates < 0:
		return fmt.Errorf("%w: %d alternates", ErrInvalidParameter, g.Alternates)
	case g.Catalog == nil || g.Preferences == nil:
		return fmt.Errorf("%w: catalog and preference sampler are required", ErrInvalidParameter)
	}
	return nil
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// Generate draws numGroups groups. A configuration error aborts before any data is
// produced.
func (g *Generator) Generate(rng *rand.Rand, numGroups int) (*Snapshot, error) {
	if err := g.check(numGroups); err != nil {
		return nil, err
	}
	houses, err := g.Catalog.Houses(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build houses: %w", err)
	}
	if len(houses) == 0 {
		return nil, fmt.Errorf("%w: catalog has no houses", ErrInvalidParameter)
	}

	groupIDs, personIDs := g.IDs.Allocators(rng)
	groups := make([]Group, numGroups)
	for i := range groups {
		size := g.MinMembers + rng.IntN(g.MaxMembers-g.MinMembers+1)
		group := Group{
			ID:        groupIDs.Next(),
			OwnerID:   personIDs.Next(),
			MemberIDs: make([]string, 0, size-1),
			Size:      size,
		}
		for range size - 1 {
			group.MemberIDs = append(group.MemberIDs, personIDs.Next())
		}

		stated := SampleStatedPreferenceCount(rng, g.MaxRank)
		group.Preferences = g.Preferences.Sample(rng, houses, stated)
		if alt := alternates(rng, houses, group.Preferences, g.Alternates); len(alt) > 0 {
			group.Alternate = alt[0]
		}
		groups[i] = group
	}

	switch {
	case g.Reconcile && !reconcilable(g.Catalog):
		g.logger().Debug("catalog has fixed capacities, skipping reconciliation")
	case g.Reconcile:
		var report ReconcileReport
		houses, report = Reconcile(groups, houses, g.Categories)
		log := g.logger().With(
			zap.Int("members", report.TotalMembers),
			zap.Int("capacity", report.TotalCapacity),
			zap.Int("iterations", report.Iterations),
		)
		if report.Sufficient {
			log.Debug("capacity reconciled")
		} else {
			log.Warn("capacity still short after reconciliation")
		}
	}

	snap := NewSnapshot(groups, houses)
	g.logger().Debug("generated snapshot",
		zap.Int("groups", len(groups)),
		zap.Int("houses", len(houses)),
	)
	return snap, nil
}
