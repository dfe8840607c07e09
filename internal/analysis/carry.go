package analysis

import (
	"math/rand"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/window"
)

type GateStats struct {
	Name      string
	Lo, Hi    uint64
	Samples   int
	MeanCarry float64
	MaxCarry  uint64
	ZeroCarry float64
}

// CarryGates samples first-step carries in four bands: the lower quarter of
// the window, the second quarter, the upper half and the band just past the
// window. Bands with lo >= hi are skipped.
func CarryGates(sys *dynamo.System, rng *rand.Rand, samples int) ([]GateStats, error) {
	limit := sys.WindowLimit()
	bands := []struct {
		name   string
		lo, hi uint64
	}{
		{"deep inside", 1, limit / 4},
		{"middle", limit / 4, limit / 2},
		{"near boundary", limit / 2, limit},
		{"outside", limit + 1, min(2*limit, sys.Prime()-1)},
	}

	var stats []GateStats
	for _, band := range bands {
		if band.lo >= band.hi {
			continue
		}
		n := samples
		if span := band.hi - band.lo; uint64(n) > span {
			n = int(span)
		}
		fibers, err := window.UniformIn(rng, band.lo, band.hi, n)
		if err != nil {
			return nil, err
		}

		g := GateStats{Name: band.name, Lo: band.lo, Hi: band.hi, Samples: n}
		var sum, zero uint64
		for _, f := range fibers {
			c := sys.Carry(f)
			sum += c
			g.MaxCarry = max(g.MaxCarry, c)
			if c == 0 {
				zero++
			}
		}
		if n > 0 {
			g.MeanCarry = float64(sum) / float64(n)
			g.ZeroCarry = 100 * float64(zero) / float64(n)
		}
		stats = append(stats, g)
	}
	return stats, nil
}
