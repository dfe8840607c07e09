// Package window samples initial fibers from the safe window [1, (p-1)/K].
package window

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand"

	"github.com/san-kum/fibersim/internal/dynamo"
)

// ErrEmptyWindow is returned when floor((p-1)/K) < 1 leaves nothing to sample.
var ErrEmptyWindow = errors.New("window: safe window is empty")

// Limit returns floor((p-1)/K), failing with ErrEmptyWindow when it is
// below 1. Primality of p is not checked here.
func Limit(k, p int64) (uint64, error) {
	if k <= 0 || p <= 0 {
		return 0, fmt.Errorf("window: K and p must be positive, got K=%d p=%d", k, p)
	}
	limit := (p - 1) / k
	if limit < 1 {
		return 0, fmt.Errorf("K=%d p=%d: %w", k, p, ErrEmptyWindow)
	}
	return uint64(limit), nil
}

// Point is a fiber chosen at a fixed percentile of the window.
type Point struct {
	Percentile float64
	Fiber      uint64
}

// Region is an inclusive fiber interval labelled by its share of the window.
type Region struct {
	Label string
	Start uint64
	End   uint64
}

func (r Region) Size() uint64 { return r.End - r.Start + 1 }

func nonEmpty(sys *dynamo.System) (uint64, error) {
	limit := sys.WindowLimit()
	if limit < 1 {
		return 0, fmt.Errorf("K=%d p=%d: %w", sys.K(), sys.Prime(), ErrEmptyWindow)
	}
	return limit, nil
}

// Uniform draws count fibers uniformly from [1, limit].
func Uniform(rng *rand.Rand, sys *dynamo.System, count int) ([]uint64, error) {
	limit, err := nonEmpty(sys)
	if err != nil {
		return nil, err
	}
	return UniformIn(rng, 1, limit, count)
}

// UniformIn draws count values uniformly from [lo, hi].
func UniformIn(rng *rand.Rand, lo, hi uint64, count int) ([]uint64, error) {
	if hi < lo {
		return nil, fmt.Errorf("[%d, %d]: %w", lo, hi, ErrEmptyWindow)
	}
	if count < 0 {
		return nil, fmt.Errorf("window: negative sample count %d", count)
	}
	span := hi - lo + 1
	out := make([]uint64, count)
	for i := range out {
		out[i] = lo + uint64(rng.Int63n(int64(span)))
	}
	return out, nil
}

// Percentiles places one fiber at floor(limit·pct/100) for each pct,
// clamped to [1, limit].
func Percentiles(sys *dynamo.System, pcts []float64) ([]Point, error) {
	limit, err := nonEmpty(sys)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(pcts))
	for _, pct := range pcts {
		n := uint64(math.Floor(float64(limit) * pct / 100))
		n = max(n, 1)
		n = min(n, limit)
		points = append(points, Point{Percentile: pct, Fiber: n})
	}
	return points, nil
}

// Regions splits the window into count equal slices. Region i spans
// [floor(limit·i/count)+1, floor(limit·(i+1)/count)]; empty slices are
// dropped, single-fiber slices are kept.
func Regions(sys *dynamo.System, count int) ([]Region, error) {
	limit, err := nonEmpty(sys)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("window: region count must be positive, got %d", count)
	}

	regions := make([]Region, 0, count)
	for i := 0; i < count; i++ {
		start := scale(limit, i, count) + 1
		end := scale(limit, i+1, count)
		if start > end {
			continue
		}
		regions = append(regions, Region{
			Label: fmt.Sprintf("%2d-%2d%%", i*100/count, (i+1)*100/count),
			Start: start,
			End:   end,
		})
	}
	return regions, nil
}

// Linspace returns count fibers evenly spaced over [1, limit].
func Linspace(sys *dynamo.System, count int) ([]uint64, error) {
	limit, err := nonEmpty(sys)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("window: resolution must be positive, got %d", count)
	}
	out := make([]uint64, count)
	if count == 1 {
		out[0] = 1
		return out, nil
	}
	step := float64(limit-1) / float64(count-1)
	for i := range out {
		out[i] = 1 + uint64(math.Floor(step*float64(i)))
	}
	out[count-1] = limit
	return out, nil
}

// Capacity is the window size expressed in bits, log2(limit).
func Capacity(sys *dynamo.System) float64 {
	if sys.WindowLimit() == 0 {
		return 0
	}
	return math.Log2(float64(sys.WindowLimit()))
}

// Coverage is the share of Z_p covered by the window, in percent.
func Coverage(sys *dynamo.System) float64 {
	return 100 * float64(sys.WindowLimit()) / float64(sys.Prime())
}

// scale computes floor(limit·i/count) without overflowing.
func scale(limit uint64, i, count int) uint64 {
	hi, lo := bits.Mul64(limit, uint64(i))
	q, _ := bits.Div64(hi, lo, uint64(count))
	return q
}
