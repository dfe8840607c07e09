package analysis

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/window"
)

// Persistence returns the percentage of fibers alive after steps.
func Persistence(ctx context.Context, sys *dynamo.System, fibers []uint64, steps int, opts ...dynamo.EnsembleOption) (float64, error) {
	b, err := sys.SimulateEnsemble(ctx, fibers, steps, opts...)
	if err != nil {
		return 0, err
	}
	return b.SurvivalRate(), nil
}

type RegionResult struct {
	Region   window.Region
	Samples  int
	Survival float64
}

// RegionalCoverage splits the window into regions and measures survival of
// up to samplesPerRegion uniform draws from each.
func RegionalCoverage(ctx context.Context, sys *dynamo.System, rng *rand.Rand, regions, samplesPerRegion, steps int, opts ...dynamo.EnsembleOption) ([]RegionResult, error) {
	slices, err := window.Regions(sys, regions)
	if err != nil {
		return nil, err
	}

	results := make([]RegionResult, 0, len(slices))
	for _, r := range slices {
		n := samplesPerRegion
		if size := r.Size(); uint64(n) > size {
			n = int(size)
		}
		fibers, err := window.UniformIn(rng, r.Start, r.End, n)
		if err != nil {
			return nil, err
		}
		rate, err := Persistence(ctx, sys, fibers, steps, opts...)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", r.Label, err)
		}
		results = append(results, RegionResult{Region: r, Samples: n, Survival: rate})
	}
	return results, nil
}

type BoundaryResult struct {
	Point   window.Point
	Outcome dynamo.Outcome
}

// BoundaryPoints simulates one fiber at each window percentile.
func BoundaryPoints(sys *dynamo.System, pcts []float64, steps int) ([]BoundaryResult, error) {
	points, err := window.Percentiles(sys, pcts)
	if err != nil {
		return nil, err
	}

	results := make([]BoundaryResult, len(points))
	for i, pt := range points {
		out, err := sys.Simulate(pt.Fiber, steps)
		if err != nil {
			return nil, err
		}
		results[i] = BoundaryResult{Point: pt, Outcome: out}
	}
	return results, nil
}

type Bridge struct {
	Resolution int
	Survivors  int
	Survival   float64
	MaxGap     int
	Continuous bool
}

// BridgeContinuity samples the window at evenly spaced fibers and reports
// the largest index gap between consecutive survivors. With no survivors
// the gap is the resolution itself.
func BridgeContinuity(ctx context.Context, sys *dynamo.System, resolution, steps int, opts ...dynamo.EnsembleOption) (Bridge, error) {
	fibers, err := window.Linspace(sys, resolution)
	if err != nil {
		return Bridge{}, err
	}
	b, err := sys.SimulateEnsemble(ctx, fibers, steps, opts...)
	if err != nil {
		return Bridge{}, err
	}

	br := Bridge{Resolution: resolution, Survival: b.SurvivalRate()}
	last := -1
	for i, alive := range b.Alive {
		if !alive {
			continue
		}
		br.Survivors++
		if last >= 0 {
			br.MaxGap = max(br.MaxGap, i-last)
		}
		last = i
	}
	if br.Survivors == 0 {
		br.MaxGap = resolution
	}
	br.Continuous = br.MaxGap <= 1
	return br, nil
}
