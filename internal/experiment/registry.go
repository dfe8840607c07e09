package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/report"
)

// Params is the shared input of every protocol.
type Params struct {
	Prime   int64
	KValues []int64
	Samples int
	Steps   int
	Seed    int64
	Workers int
	Logger  *slog.Logger
}

func (p Params) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p Params) config(k int64) Config {
	return Config{K: k, Prime: p.Prime, Samples: p.Samples, Steps: p.Steps, Seed: p.Seed, Workers: p.Workers}
}

func (p Params) ensembleOpts() []dynamo.EnsembleOption {
	return []dynamo.EnsembleOption{dynamo.WithWorkers(p.Workers)}
}

type Protocol func(ctx context.Context, p Params) (*report.Table, error)

type entry struct {
	description string
	run         Protocol
}

type Registry struct {
	protocols map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{protocols: make(map[string]entry)}

	r.Register("persistence", "survival of uniform window samples per K", runPersistence)
	r.Register("regions", "survival in ten equal slices of the window", runRegions)
	r.Register("boundary", "survival of fibers at fixed window percentiles", runBoundary)
	r.Register("bridge", "continuity of survivors across an even grid", runBridge)
	r.Register("lifetimes", "lifetime statistics of uniform samples", runLifetimes)
	r.Register("retention", "return map retention and window capacity", runRetention)
	r.Register("order", "multiplicative order of the return multiplier", runOrder)
	r.Register("uniqueness", "K values in [1, 100] with an identity cycle", runUniqueness)
	r.Register("carry", "first-step carry statistics around the window", runCarry)

	return r
}

func (r *Registry) Register(name, description string, fn Protocol) {
	r.protocols[name] = entry{description: description, run: fn}
}

func (r *Registry) GetProtocol(name string) (Protocol, error) {
	e, ok := r.protocols[name]
	if !ok {
		return nil, fmt.Errorf("unknown protocol: %s", name)
	}
	return e.run, nil
}

func (r *Registry) Describe(name string) string {
	return r.protocols[name].description
}

func (r *Registry) ListProtocols() []string {
	names := make([]string, 0, len(r.protocols))
	for name := range r.protocols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named protocol.
func (r *Registry) Run(ctx context.Context, name string, p Params) (*report.Table, error) {
	fn, err := r.GetProtocol(name)
	if err != nil {
		return nil, err
	}
	p.logger().Debug("protocol start", "protocol", name, "K", p.KValues)
	t, err := fn(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
