package dynamo

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	defaultChunk  = 4096
	cancelCheckAt = 1024
)

// Batch holds per-member ensemble outcomes in input order.
type Batch struct {
	Alive    []bool
	Lifetime []int
	Final    []State
	Steps    int
}

func newBatch(n, steps int) *Batch {
	return &Batch{
		Alive:    make([]bool, n),
		Lifetime: make([]int, n),
		Final:    make([]State, n),
		Steps:    steps,
	}
}

func (b *Batch) Len() int { return len(b.Alive) }

func (b *Batch) Outcome(i int) Outcome {
	return Outcome{Survived: b.Alive[i], Lifetime: b.Lifetime[i], Final: b.Final[i]}
}

func (b *Batch) AliveCount() int {
	n := 0
	for _, a := range b.Alive {
		if a {
			n++
		}
	}
	return n
}

// SurvivalRate is the percentage of members alive after the last step.
func (b *Batch) SurvivalRate() float64 {
	if b.Len() == 0 {
		return 0
	}
	return 100 * float64(b.AliveCount()) / float64(b.Len())
}

// Curve returns the percentage alive after each step; index 0 is the
// initial ensemble. A member dead at lifetime L counts as alive for s < L.
func (b *Batch) Curve() []float64 {
	counts := make([]int, b.Steps+2)
	for i, alive := range b.Alive {
		if alive {
			counts[b.Steps+1]++
			continue
		}
		counts[b.Lifetime[i]]++
	}

	curve := make([]float64, b.Steps+1)
	if b.Len() == 0 {
		return curve
	}
	remaining := b.Len()
	for s := 0; s <= b.Steps; s++ {
		remaining -= counts[s]
		curve[s] = 100 * float64(remaining) / float64(b.Len())
	}
	return curve
}

type ensembleOptions struct {
	workers int
	chunk   int
}

type EnsembleOption func(*ensembleOptions)

// WithWorkers caps concurrent workers. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) EnsembleOption {
	return func(o *ensembleOptions) { o.workers = n }
}

// WithChunkSize sets how many members one worker task handles.
func WithChunkSize(n int) EnsembleOption {
	return func(o *ensembleOptions) { o.chunk = n }
}

// SimulateEnsemble runs Simulate on every fiber. Members never interact:
// each worker owns a contiguous slice of the output, so the result matches
// a sequential loop element for element.
func (sys *System) SimulateEnsemble(ctx context.Context, fibers []uint64, steps int, opts ...EnsembleOption) (*Batch, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	for i, n := range fibers {
		if n >= sys.p {
			return nil, paramErr("fibers["+strconv.Itoa(i)+"]", n, "must lie in [0, p-1]")
		}
	}

	o := ensembleOptions{workers: runtime.GOMAXPROCS(0), chunk: defaultChunk}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.chunk < 1 {
		o.chunk = defaultChunk
	}

	batch := newBatch(len(fibers), steps)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for start := 0; start < len(fibers); start += o.chunk {
		if gctx.Err() != nil {
			break
		}
		end := min(start+o.chunk, len(fibers))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckAt == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out := sys.run(fibers[i], steps)
				batch.Alive[i] = out.Survived
				batch.Lifetime[i] = out.Lifetime
				batch.Final[i] = out.Final
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

// SimulateEnsemble builds a System for (k, p) and runs the ensemble.
func SimulateEnsemble(ctx context.Context, fibers []uint64, k, p int64, steps int) (*Batch, error) {
	sys, err := NewSystem(k, p)
	if err != nil {
		return nil, err
	}
	return sys.SimulateEnsemble(ctx, fibers, steps)
}

// ParallelFor executes fn over [0, n) in contiguous chunks of at least
// minChunk elements.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
