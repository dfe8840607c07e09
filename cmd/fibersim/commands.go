package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fibersim/internal/analysis"
	"github.com/san-kum/fibersim/internal/automation"
	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/experiment"
	"github.com/san-kum/fibersim/internal/export"
	"github.com/san-kum/fibersim/internal/report"
	"github.com/san-kum/fibersim/internal/viz"
	"github.com/san-kum/fibersim/internal/window"
)

func protocolCommand(registry *experiment.Registry, use, name string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: registry.Describe(name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtocols(cmd, registry, []string{name})
		},
	}
}

func runProtocols(cmd *cobra.Command, registry *experiment.Registry, names []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = registry.ListProtocols()
	}

	params := cfg.Params()
	params.Logger = slog.Default()

	for _, name := range names {
		slog.Info("running protocol", "name", name, "K", cfg.KValues, "samples", cfg.Samples)
		table, err := registry.Run(cmd.Context(), name, params)
		if err != nil {
			return err
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	k := cfg.KValues[0]
	sys, err := dynamo.NewSystem(k, cfg.Prime)
	if err != nil {
		return err
	}

	points, err := sys.Trace(fiber, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Println(report.TitleStyle.Render(fmt.Sprintf("trace K=%d p=%d n=%d (window limit %d)", k, cfg.Prime, fiber, sys.WindowLimit())))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tBASE\tFIBER\tCARRY\tKIND\tIN WINDOW")
	for _, pt := range points {
		kind := "-"
		if pt.Step > 0 {
			kind = pt.Kind.String()
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n", pt.Step, pt.State.Base, pt.State.Fiber, pt.Carry, kind, report.Check(pt.InWindow))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	last := points[len(points)-1]
	if last.State.Alive() {
		fmt.Printf("\nalive after %d steps\n", last.Step)
	} else {
		fmt.Printf("\nextinct at step %d with base %d\n", last.Step, last.State.Base)
	}

	if traceCSV != "" {
		if err := export.SaveFile(traceCSV, func(out io.Writer) error {
			return export.WriteTraceCSV(out, points)
		}); err != nil {
			return err
		}
		slog.Info("trace written", "path", traceCSV)
	}
	if traceJSON != "" {
		rec := export.NewTraceRecord(sys, fiber, points)
		if err := export.SaveFile(traceJSON, func(out io.Writer) error {
			return export.WriteJSON(out, rec)
		}); err != nil {
			return err
		}
		slog.Info("trace written", "path", traceJSON)
	}
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var (
		series []report.Series
		curves []export.Curve
	)
	for _, k := range cfg.KValues {
		exp, err := experiment.New(cfg.Experiment(k))
		if err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}

		curve := res.Batch.Curve()
		series = append(series, report.Series{Name: fmt.Sprintf("K=%d", k), Data: curve})
		curves = append(curves, export.Curve{K: k, Points: curve})

		hist := analysis.Histogram(analysis.LifetimeValues(res.Batch), bins)
		labels := make([]string, len(hist))
		counts := make([]int, len(hist))
		for i, b := range hist {
			labels[i] = fmt.Sprintf("%.0f-%.0f", b.Lo, b.Hi)
			counts[i] = b.Count
		}
		fmt.Println(report.TitleStyle.Render(fmt.Sprintf("lifetimes K=%d", k)))
		fmt.Println(report.Bars(labels, counts, 50))
	}

	fmt.Println(report.Curves(series, fmt.Sprintf("survival %% over %d steps, %d samples", cfg.Steps, cfg.Samples)))

	if curveCSV != "" {
		if err := export.SaveFile(curveCSV, func(out io.Writer) error {
			return export.WriteCurvesCSV(out, curves)
		}); err != nil {
			return err
		}
		slog.Info("curves written", "path", curveCSV)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.KSweep{
		Prime:   cfg.Prime,
		KMin:    kMin,
		KMax:    kMax,
		Samples: cfg.Samples,
		Steps:   cfg.Steps,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}, slog.Default())
	if err != nil {
		return err
	}

	t := report.NewTable(fmt.Sprintf("K sweep [%d, %d], p=%d", kMin, kMax, cfg.Prime),
		"K", "WINDOW", "SURVIVAL", "MEAN LIFETIME", "IDENTITY", "VERDICT")
	var persistent []string
	survival := make([]float64, 0, len(results))
	for _, r := range results {
		v := analysis.Classify(r.Survival)
		if v == analysis.Persistent {
			persistent = append(persistent, fmt.Sprint(r.K))
		}
		survival = append(survival, r.Survival)
		t.AddRow(r.K, r.WindowLimit, fmt.Sprintf("%.2f%%", r.Survival), fmt.Sprintf("%.2f", r.MeanLifetime), report.Check(r.Identity), report.Verdict(v))
	}
	t.AddSummary("persistent K: [%s]", strings.Join(persistent, " "))
	if err := t.Render(os.Stdout); err != nil {
		return err
	}

	if len(survival) > 1 {
		fmt.Println(report.Curve(survival, fmt.Sprintf("survival %% for K = %d..%d", kMin, kMin+int64(len(survival))-1)))
	}
	return nil
}

func runReplicates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	for _, k := range cfg.KValues {
		results, err := automation.RunReplicates(cmd.Context(), cfg.Experiment(k), replicateRuns, slog.Default())
		if err != nil {
			return err
		}
		mean, lo, hi := automation.ReplicateStats(results)
		fmt.Printf("K=%d  %d seeds from %d  survival mean %.2f%%  min %.2f%%  max %.2f%%  %s\n",
			k, replicateRuns, cfg.Seed, mean, lo, hi, report.Verdict(analysis.Classify(mean)))
	}
	return nil
}

func runScenario(cmd *cobra.Command, registry *experiment.Registry, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(path)
	if err != nil {
		return err
	}
	if sc.Description != "" {
		fmt.Println(report.DimStyle.Render(sc.Description))
	}

	tables, runErr := automation.RunScenario(cmd.Context(), sc, registry, cfg.Params(), slog.Default())
	if err := report.RenderAll(os.Stdout, tables); err != nil {
		return err
	}
	return runErr
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.OutputDir
	rng := rand.New(rand.NewSource(cfg.Seed))

	var (
		curves []export.Curve
		bars   []export.RetentionBar
	)
	for _, k := range cfg.KValues {
		exp, err := experiment.New(cfg.Experiment(k))
		if err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}
		curves = append(curves, export.Curve{K: k, Points: res.Batch.Curve()})

		fibers, err := window.Uniform(rng, res.System, scatterSize)
		if err != nil {
			return err
		}
		ret := analysis.ReturnRetention(res.System, fibers)
		bars = append(bars, export.RetentionBar{K: k, Rate: ret.Rate})

		path := filepath.Join(dir, fmt.Sprintf("return_map_k%d.png", k))
		if err := export.SaveFile(path, func(out io.Writer) error {
			return export.ReturnScatter(out, k, res.System.Prime(), ret.Pairs)
		}); err != nil {
			return err
		}
		slog.Info("chart written", "path", path)
	}

	charts := map[string]func(io.Writer) error{
		"survival.png":  func(out io.Writer) error { return export.SurvivalChart(out, curves) },
		"retention.png": func(out io.Writer) error { return export.RetentionChart(out, bars) },
		"window.png":    func(out io.Writer) error { return export.WindowChart(out, cfg.Prime, windowKMax) },
	}
	for name, draw := range charts {
		path := filepath.Join(dir, name)
		if err := export.SaveFile(path, draw); err != nil {
			return err
		}
		slog.Info("chart written", "path", path)
	}

	curvesPath := filepath.Join(dir, "survival.csv")
	if err := export.SaveFile(curvesPath, func(out io.Writer) error {
		return export.WriteCurvesCSV(out, curves)
	}); err != nil {
		return err
	}
	slog.Info("curves written", "path", curvesPath)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.LiveConfig{
		KValues: cfg.KValues,
		Prime:   cfg.Prime,
		Members: cfg.Samples,
		Steps:   cfg.Steps,
		Seed:    cfg.Seed,
	})
}

func listPresets() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRIME\tK\tSAMPLES\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%v\t%d\t%d\n", name, p.Prime, p.KValues, p.Samples, p.Steps)
	}
	return w.Flush()
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
