package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fibersim/internal/experiment"
	"github.com/san-kum/fibersim/internal/report"
)

// Scenario is a scripted sequence of protocol runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prime       int64  `yaml:"prime"`
	Seed        int64  `yaml:"seed"`
	Runs        []Run  `yaml:"runs"`
}

// Run is a single protocol invocation. Zero fields inherit the defaults
// passed to RunScenario.
type Run struct {
	Protocol string  `yaml:"protocol"`
	KValues  []int64 `yaml:"k_values"`
	Samples  int     `yaml:"samples"`
	Steps    int     `yaml:"steps"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %s has no runs", path)
	}
	return &scenario, nil
}

func (s *Scenario) params(base experiment.Params, r Run) experiment.Params {
	p := base
	if s.Prime != 0 {
		p.Prime = s.Prime
	}
	if s.Seed != 0 {
		p.Seed = s.Seed
	}
	if len(r.KValues) > 0 {
		p.KValues = r.KValues
	}
	if r.Samples > 0 {
		p.Samples = r.Samples
	}
	if r.Steps > 0 {
		p.Steps = r.Steps
	}
	return p
}

// RunScenario executes every run in order and returns one table per run.
// Tables produced before a failure are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, base experiment.Params, logger *slog.Logger) ([]*report.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tables := make([]*report.Table, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		logger.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Runs), "protocol", run.Protocol)

		p := scenario.params(base, run)
		p.Logger = logger
		t, err := registry.Run(ctx, run.Protocol, p)
		if err != nil {
			return tables, fmt.Errorf("step %d: %w", i+1, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// KSweep runs the persistence experiment for every K in [KMin, KMax].
type KSweep struct {
	Prime   int64
	KMin    int64
	KMax    int64
	Samples int
	Steps   int
	Seed    int64
	Workers int
}

type SweepResult struct {
	K            int64
	WindowLimit  uint64
	Survival     float64
	MeanLifetime float64
	Identity     bool
}

// RunSweep skips K values not below the prime.
func RunSweep(ctx context.Context, sweep *KSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.KMin < 1 || sweep.KMax < sweep.KMin {
		return nil, fmt.Errorf("invalid K range [%d, %d]", sweep.KMin, sweep.KMax)
	}
	if logger == nil {
		logger = slog.Default()
	}

	kMax := min(sweep.KMax, sweep.Prime-1)
	total := max(kMax-sweep.KMin+1, 0)
	results := make([]SweepResult, 0, total)

	for k := sweep.KMin; k <= kMax; k++ {
		exp, err := experiment.New(experiment.Config{
			K:       k,
			Prime:   sweep.Prime,
			Samples: sweep.Samples,
			Steps:   sweep.Steps,
			Seed:    sweep.Seed,
			Workers: sweep.Workers,
		})
		if err != nil {
			return nil, err
		}
		exp.SetLogger(logger)

		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			K:            k,
			WindowLimit:  res.System.WindowLimit(),
			Survival:     res.Metrics["survival_rate"],
			MeanLifetime: res.Metrics["mean_lifetime"],
			Identity:     res.System.IsIdentityCycle(),
		})

		logger.Info("sweep", "K", k, "progress", fmt.Sprintf("%d/%d", k-sweep.KMin+1, total), "survival", res.Metrics["survival_rate"])
	}

	return results, nil
}

// ReplicateResult is one run of the same experiment under another seed.
type ReplicateResult struct {
	Seed     int64
	Survival float64
}

// RunReplicates repeats cfg with seeds cfg.Seed, cfg.Seed+1, ... to show
// how much the survival rate depends on the sample.
func RunReplicates(ctx context.Context, cfg experiment.Config, n int, logger *slog.Logger) ([]ReplicateResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("replicates: runs must be positive, got %d", n)
	}
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]ReplicateResult, 0, n)

	for i := 0; i < n; i++ {
		c := cfg
		c.Seed = cfg.Seed + int64(i)
		exp, err := experiment.New(c)
		if err != nil {
			return nil, err
		}
		exp.SetLogger(logger)

		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, ReplicateResult{Seed: c.Seed, Survival: res.Metrics["survival_rate"]})

		if (i+1)%10 == 0 {
			logger.Info("replicates", "done", i+1, "of", n)
		}
	}
	return results, nil
}

// ReplicateStats returns mean, min and max survival over replicates.
func ReplicateStats(results []ReplicateResult) (mean, lo, hi float64) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		mean += r.Survival
		lo = math.Min(lo, r.Survival)
		hi = math.Max(hi, r.Survival)
	}
	return mean / float64(len(results)), lo, hi
}
