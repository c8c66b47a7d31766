// Package session holds the current snapshot and the solver results computed for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"house_assignment/src/housing"
	"house_assignment/src/outcome"
)

var (
	ErrNoSnapshot    = errors.New("no snapshot generated yet")
	ErrStaleSnapshot = errors.New("snapshot was replaced while solving")
)

type Solver interface {
	Solve(ctx context.Context, variant housing.Variant, snap *housing.Snapshot) (housing.Result, error)
}

// Workspace owns one snapshot at a time. Results always belong to the current
// snapshot: replacing it drops them.
type Workspace struct {
	mu      sync.RWMutex
	snap    *housing.Snapshot
	version uint64
	results map[housing.Variant]housing.Result

	inflight singleflight.Group
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{
		results: make(map[housing.Variant]housing.Result),
		logger:  logger,
	}
}

// Regenerate installs snap and clears both results. It returns the new version.
// A nil snap empties the workspace.
func (w *Workspace) Regenerate(snap *housing.Snapshot) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap = snap
	w.version++
	w.results = make(map[housing.Variant]housing.Result)
	groups := 0
	if snap != nil {
		groups = len(snap.Groups)
	}
	w.logger.Debug("snapshot replaced", zap.Uint64("version", w.version), zap.Int("groups", groups))
	return w.version
}

// Generate runs gen and installs the snapshot. On error the workspace is unchanged.
func (w *Workspace) Generate(rng *rand.Rand, gen *housing.Generator, numGroups int) (*housing.Snapshot, error) {
	snap, err := gen.Generate(rng, numGroups)
	if err != nil {
		return nil, err
	}
	w.Regenerate(snap)
	return snap, nil
}

func (w *Workspace) Snapshot() (*housing.Snapshot, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap, w.version
}

func (w *Workspace) Result(variant housing.Variant) (housing.Result, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.results[variant]
	return r, ok
}

// Solve asks solver for variant on the current snapshot. Concurrent calls for the
// same snapshot and variant share one request, run under the first caller's ctx.
// A failed call leaves the previous result in place.
func (w *Workspace) Solve(ctx context.Context, variant housing.Variant, solver Solver) (housing.Result, error) {
	snap, version := w.Snapshot()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	key := fmt.Sprintf("%d/%s", version, variant)
	v, err, shared := w.inflight.Do(key, func() (any, error) {
		return solver.Solve(ctx, variant, snap)
	})
	if err != nil {
		w.logger.Warn("solve failed", zap.String("variant", string(variant)), zap.Error(err))
		return nil, err
	}
	result := v.(housing.Result)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.version != version {
		w.logger.Debug("discarding result for replaced snapshot",
			zap.String("variant", string(variant)),
			zap.Uint64("version", version))
		return nil, ErrStaleSnapshot
	}
	w.results[variant] = result
	w.logger.Debug("result stored", zap.String("variant", string(variant)), zap.Bool("shared", shared))
	return result, nil
}

// Comparison recomputes the A/B comparison from the stored results.
func (w *Workspace) Comparison(weighting outcome.Weighting) (*outcome.Comparison, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.snap == nil {
		return nil, ErrNoSnapshot
	}
	cmp := outcome.Compare(w.snap, w.results[housing.VariantA], w.results[housing.VariantB], weighting)
	return &cmp, nil
}
