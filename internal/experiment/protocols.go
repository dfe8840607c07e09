package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/san-kum/fibersim/internal/analysis"
	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/report"
	"github.com/san-kum/fibersim/internal/window"
)

const (
	regionCount      = 10
	bridgeResolution = 200
	maxReturnOrder   = 1000
	uniquenessMaxK   = 100
)

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func joinK(ks []int64) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, ", ")
}

func runPersistence(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("persistence: %d samples, %d steps, p=%d", p.Samples, p.Steps, p.Prime),
		"K", "WINDOW", "SURVIVORS", "SURVIVAL", "VERDICT")

	var persistent []int64
	for _, k := range p.KValues {
		exp, err := New(p.config(k))
		if err != nil {
			return nil, err
		}
		exp.SetLogger(p.logger())
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		rate := res.Metrics["survival_rate"]
		v := analysis.Classify(rate)
		if v == analysis.Persistent {
			persistent = append(persistent, k)
		}
		t.AddRow(k, res.System.WindowLimit(), fmt.Sprintf("%d/%d", res.Batch.AliveCount(), res.Batch.Len()), pct(rate), report.Verdict(v))
	}
	t.AddSummary("persistent K: [%s]", joinK(persistent))
	return t, nil
}

func runRegions(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("regional coverage: %d regions, %d steps", regionCount, p.Steps),
		"K", "REGION", "RANGE", "SAMPLES", "SURVIVAL")
	rng := rand.New(rand.NewSource(p.Seed))
	perRegion := max(1, p.Samples/regionCount)

	for _, k := range p.KValues {
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		results, err := analysis.RegionalCoverage(ctx, sys, rng, regionCount, perRegion, p.Steps, p.ensembleOpts()...)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			t.AddRow(k, r.Region.Label, fmt.Sprintf("[%d, %d]", r.Region.Start, r.Region.End), r.Samples, pct(r.Survival))
		}
	}
	return t, nil
}

func runBoundary(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("boundary points: %d steps", p.Steps),
		"K", "POSITION", "FIBER", "SURVIVED", "LIFETIME")

	for _, k := range p.KValues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		results, err := analysis.BoundaryPoints(sys, analysis.DefaultPercentiles, p.Steps)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			t.AddRow(k, fmt.Sprintf("%.1f%%", r.Point.Percentile), r.Point.Fiber, report.Check(r.Outcome.Survived), r.Outcome.Lifetime)
		}
	}
	return t, nil
}

func runBridge(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("bridge continuity: resolution %d, %d steps", bridgeResolution, p.Steps),
		"K", "SURVIVORS", "SURVIVAL", "MAX GAP", "CONTINUOUS")

	for _, k := range p.KValues {
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		br, err := analysis.BridgeContinuity(ctx, sys, bridgeResolution, p.Steps, p.ensembleOpts()...)
		if err != nil {
			return nil, err
		}
		t.AddRow(k, fmt.Sprintf("%d/%d", br.Survivors, br.Resolution), pct(br.Survival), br.MaxGap, report.Check(br.Continuous))
	}
	return t, nil
}

func runLifetimes(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("lifetimes: %d samples, %d steps", p.Samples, p.Steps),
		"K", "MEAN", "MEDIAN", "MAX", "PERSISTENT")

	for _, k := range p.KValues {
		exp, err := New(p.config(k))
		if err != nil {
			return nil, err
		}
		exp.SetLogger(p.logger())
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		st := analysis.Lifetimes(res.Batch)
		t.AddRow(k, fmt.Sprintf("%.2f", st.Mean), fmt.Sprintf("%.1f", st.Median), st.Max, pct(st.Persistent))
	}
	return t, nil
}

func runRetention(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("return map retention: %d samples", p.Samples),
		"K", "LAMBDA", "WINDOW", "COVERAGE", "CAPACITY", "RETENTION")
	rng := rand.New(rand.NewSource(p.Seed))

	for _, k := range p.KValues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		fibers, err := window.Uniform(rng, sys, p.Samples)
		if err != nil {
			return nil, err
		}
		r := analysis.ReturnRetention(sys, fibers)
		t.AddRow(k, sys.ReturnMultiplier(), sys.WindowLimit(),
			fmt.Sprintf("%.4f%%", window.Coverage(sys)),
			fmt.Sprintf("%.2f bits", window.Capacity(sys)),
			pct(r.Rate))
	}
	return t, nil
}

func runOrder(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable("return map order", "K", "LAMBDA", "ORDER", "IDENTITY")

	for _, k := range p.KValues {
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		order := fmt.Sprintf(">%d", maxReturnOrder)
		if m := analysis.ReturnOrder(sys, maxReturnOrder); m > 0 {
			order = fmt.Sprint(m)
		}
		t.AddRow(k, sys.ReturnMultiplier(), order, report.Check(sys.IsIdentityCycle()))
	}
	return t, nil
}

func runUniqueness(ctx context.Context, p Params) (*report.Table, error) {
	found, err := analysis.IdentityScan(p.Prime, uniquenessMaxK)
	if err != nil {
		return nil, err
	}

	t := report.NewTable(fmt.Sprintf("identity cycle scan: K in [1, %d]", uniquenessMaxK), "K", "LAMBDA")
	for _, k := range found {
		t.AddRow(k, 1)
	}
	if len(found) == 1 && found[0] == 4 {
		t.AddSummary("K=4 is the only identity cycle in range")
	} else {
		t.AddSummary("identity cycles at K: [%s]", joinK(found))
	}
	return t, nil
}

func runCarry(ctx context.Context, p Params) (*report.Table, error) {
	t := report.NewTable(
		fmt.Sprintf("carry gates: up to %d samples per band", p.Samples),
		"K", "BAND", "RANGE", "SAMPLES", "MEAN", "MAX", "ZERO CARRY")
	rng := rand.New(rand.NewSource(p.Seed))

	for _, k := range p.KValues {
		sys, err := dynamo.NewSystem(k, p.Prime)
		if err != nil {
			return nil, err
		}
		stats, err := analysis.CarryGates(sys, rng, p.Samples)
		if err != nil {
			return nil, err
		}
		for _, g := range stats {
			t.AddRow(k, g.Name, fmt.Sprintf("[%d, %d]", g.Lo, g.Hi), g.Samples,
				fmt.Sprintf("%.3f", g.MeanCarry), g.MaxCarry, pct(g.ZeroCarry))
		}
	}
	return t, nil
}
