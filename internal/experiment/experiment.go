package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/metrics"
	"github.com/san-kum/fibersim/internal/window"
)

type Config struct {
	K       int64
	Prime   int64
	Samples int
	Steps   int
	Seed    int64
	Workers int
}

type Result struct {
	Config  Config
	System  *dynamo.System
	Fibers  []uint64
	Batch   *dynamo.Batch
	Metrics map[string]float64
}

type Experiment struct {
	cfg        Config
	sys        *dynamo.System
	metrics    []metrics.Metric
	randSource *rand.Rand
	logger     *slog.Logger
}

// New validates the parameters and builds the system. The default metrics
// are attached; AddMetric appends more.
func New(cfg Config) (*Experiment, error) {
	if cfg.Samples < 0 {
		return nil, fmt.Errorf("experiment: samples must not be negative, got %d", cfg.Samples)
	}
	sys, err := dynamo.NewSystem(cfg.K, cfg.Prime)
	if err != nil {
		return nil, err
	}
	return &Experiment{
		cfg:        cfg,
		sys:        sys,
		metrics:    metrics.Defaults(),
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		logger:     slog.Default(),
	}, nil
}

func (e *Experiment) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *Experiment) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

func (e *Experiment) System() *dynamo.System {
	return e.sys
}

// Run draws Samples fibers uniformly from the safe window and simulates
// them for Steps steps.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	fibers, err := window.Uniform(e.randSource, e.sys, e.cfg.Samples)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("running ensemble",
		"K", e.cfg.K, "p", e.cfg.Prime, "samples", len(fibers), "steps", e.cfg.Steps)

	batch, err := e.sys.SimulateEnsemble(ctx, fibers, e.cfg.Steps, dynamo.WithWorkers(e.cfg.Workers))
	if err != nil {
		return nil, fmt.Errorf("K=%d: %w", e.cfg.K, err)
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	values := metrics.Collect(batch, e.metrics)

	e.logger.Debug("ensemble done", "K", e.cfg.K, "survival", values["survival_rate"])

	return &Result{
		Config:  e.cfg,
		System:  e.sys,
		Fibers:  fibers,
		Batch:   batch,
		Metrics: values,
	}, nil
}
