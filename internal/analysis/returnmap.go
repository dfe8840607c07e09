package analysis

import (
	"github.com/san-kum/fibersim/internal/dynamo"
)

// Pair is one application of the return map.
type Pair struct {
	In, Out uint64
}

type Retention struct {
	Rate  float64
	Pairs []Pair
}

// ReturnRetention applies R_K once to every fiber and reports the share
// whose image stays inside the safe window.
func ReturnRetention(sys *dynamo.System, fibers []uint64) Retention {
	pairs := make([]Pair, len(fibers))
	dynamo.ParallelFor(len(fibers), 1024, func(start, end int) {
		for i := start; i < end; i++ {
			pairs[i] = Pair{In: fibers[i], Out: sys.ReturnMap(fibers[i])}
		}
	})

	kept := 0
	for _, pr := range pairs {
		if sys.InWindow(pr.Out) {
			kept++
		}
	}

	r := Retention{Pairs: pairs}
	if len(pairs) > 0 {
		r.Rate = 100 * float64(kept) / float64(len(pairs))
	}
	return r
}

// ReturnOrder returns the smallest m in [1, maxOrder] with λ^m = 1, or 0
// when the order exceeds maxOrder.
func ReturnOrder(sys *dynamo.System, maxOrder int) int {
	lambda := sys.ReturnMultiplier()
	x := uint64(1)
	for m := 1; m <= maxOrder; m++ {
		x = dynamo.MulMod(x, lambda, sys.Prime())
		if x == 1 {
			return m
		}
	}
	return 0
}

// IdentityScan lists every K in [1, kMax] whose return map is the identity.
// K values not below p are skipped.
func IdentityScan(p int64, kMax int) ([]int64, error) {
	var found []int64
	for k := int64(1); k <= int64(kMax) && k < p; k++ {
		sys, err := dynamo.NewSystem(k, p)
		if err != nil {
			return nil, err
		}
		if sys.IsIdentityCycle() {
			found = append(found, k)
		}
	}
	return found, nil
}
