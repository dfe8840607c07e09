package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/experiment"
)

var (
	configFile string
	preset     string
	prime      int64
	kValues    []int64
	samples    int
	steps      int
	seed       int64
	workers    int
	outputDir  string
	verbose    bool

	// trace
	fiber     uint64
	traceCSV  string
	traceJSON string

	// curve
	curveCSV string
	bins     int

	// sweep
	kMin int64
	kMax int64

	// replicates
	replicateRuns int

	// plot
	windowKMax  int
	scatterSize int
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fibersim",
		Short:         "fiber-coupled 3-cycle persistence lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&prime, "prime", 0, "prime modulus p")
	pf.Int64SliceVar(&kValues, "k", nil, "K values (comma separated)")
	pf.IntVar(&samples, "samples", 0, "ensemble size")
	pf.IntVar(&steps, "steps", 0, "steps per trajectory")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.IntVar(&workers, "workers", 0, "ensemble workers (0 = GOMAXPROCS)")
	pf.StringVar(&outputDir, "out", "", "output directory for plots")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	registry := experiment.NewRegistry()

	verifyCmd := &cobra.Command{
		Use:   "verify [protocol...]",
		Short: "run verification protocols (all by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtocols(cmd, registry, args)
		},
	}

	persistCmd := protocolCommand(registry, "persist", "persistence")
	rootCmd.AddCommand(verifyCmd, persistCmd)
	for _, name := range []string{"regions", "boundary", "bridge", "lifetimes", "retention", "order", "uniqueness", "carry"} {
		rootCmd.AddCommand(protocolCommand(registry, name, name))
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "print one trajectory step by step",
		RunE:  runTrace,
	}
	traceCmd.Flags().Uint64Var(&fiber, "fiber", 100_000_000, "initial fiber")
	traceCmd.Flags().StringVar(&traceCSV, "csv", "", "write trace to CSV file")
	traceCmd.Flags().StringVar(&traceJSON, "json", "", "write trace to JSON file")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot survival curves and lifetime histograms",
		RunE:  runCurve,
	}
	curveCmd.Flags().StringVar(&curveCSV, "csv", "", "write curves to CSV file")
	curveCmd.Flags().IntVar(&bins, "bins", 10, "lifetime histogram bins")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "persistence for every K in a range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Int64Var(&kMin, "k-min", 1, "first K")
	sweepCmd.Flags().Int64Var(&kMax, "k-max", 16, "last K")

	replicatesCmd := &cobra.Command{
		Use:   "replicates",
		Short: "repeat the persistence run under consecutive seeds",
		RunE:  runReplicates,
	}
	replicatesCmd.Flags().IntVar(&replicateRuns, "runs", 10, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, registry, args[0])
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "write PNG charts to the output directory",
		RunE:  runPlot,
	}
	plotCmd.Flags().IntVar(&windowKMax, "window-k-max", 32, "largest K in the window size chart")
	plotCmd.Flags().IntVar(&scatterSize, "scatter", 2000, "points per return map scatter")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch an ensemble evolve in the terminal",
		RunE:  runLive,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "show or write configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the resolved configuration",
			RunE:  showConfig,
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the default configuration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Save(args[0], config.DefaultConfig()); err != nil {
					return err
				}
				slog.Info("config written", "path", args[0])
				return nil
			},
		},
	)

	rootCmd.AddCommand(traceCmd, curveCmd, sweepCmd, replicatesCmd, scenarioCmd, plotCmd, liveCmd, presetsCmd, configCmd)
	return rootCmd
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	})))
}

// loadConfig resolves defaults, then preset, then config file, then
// FIBERSIM_* variables, then flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("prime") {
		cfg.Prime = prime
	}
	if flags.Changed("k") {
		cfg.KValues = kValues
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config resolved", "prime", cfg.Prime, "K", cfg.KValues, "samples", cfg.Samples, "steps", cfg.Steps, "seed", cfg.Seed)
	return cfg, nil
}
