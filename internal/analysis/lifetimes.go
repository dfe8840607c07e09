package analysis

import (
	"math"
	"slices"

	"github.com/san-kum/fibersim/internal/dynamo"
)

type LifetimeStats struct {
	Mean       float64
	Median     float64
	Max        int
	Persistent float64 // percent of members that survived every step
}

func Lifetimes(b *dynamo.Batch) LifetimeStats {
	n := b.Len()
	if n == 0 {
		return LifetimeStats{}
	}

	sorted := slices.Clone(b.Lifetime)
	slices.Sort(sorted)

	sum := 0
	for _, l := range sorted {
		sum += l
	}

	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return LifetimeStats{
		Mean:       float64(sum) / float64(n),
		Median:     median,
		Max:        sorted[n-1],
		Persistent: b.SurvivalRate(),
	}
}

type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram buckets values into bins of equal width. The last bin is
// closed on the right so the maximum is counted.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// LifetimeValues converts a batch's lifetimes for Histogram.
func LifetimeValues(b *dynamo.Batch) []float64 {
	out := make([]float64, b.Len())
	for i, l := range b.Lifetime {
		out[i] = float64(l)
	}
	return out
}
