package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballpit/internal/analysis"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/console"
	"github.com/san-kum/ballpit/internal/experiment"
	"github.com/san-kum/ballpit/internal/scenario"
	"github.com/san-kum/ballpit/internal/storage"
)

var (
	dataDir   string
	logFormat string
	logLevel  string

	configFile   string
	preset       string
	scenarioName string
	dt           float64
	duration     float64
	seed         int64
	count        uint64
	sampleEvery  int
	numRuns      int
	noSave       bool

	column    string
	format    string
	outFile   string
	logFile   string
	plotWidth int
	fromRun   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "ballpit",
		Short:             "2D particle pit with collisions and a moving frame",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballpit", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text|json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and record telemetry",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "spawn seed")
	runCmd.Flags().Uint64Var(&count, "count", config.DefaultCount, "initial particle count")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "", "scenario name or yaml file")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "record telemetry every n ticks")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of seeded runs")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive console",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the console is open")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a telemetry column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "kinetic_energy", "telemetry column")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a telemetry column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "kinetic_energy", "telemetry column")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json|csv)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range scenario.List() {
				fmt.Fprintf(w, "  %s\t%s\n", name, scenario.Get(name).Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	addConfigFlags(configCmd)
	configCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")
	configCmd.Flags().StringVar(&fromRun, "from-run", "", "print the configuration stored with a run")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd, scenariosCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr, logFormat, logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
}

// loadConfig resolves preset, then config file, then explicitly set flags.
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

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Spawn.Seed = seed
	}
	if flags.Lookup("count") != nil && flags.Changed("count") {
		cfg.Particles.Count = count
	}
	if flags.Lookup("scenario") != nil && flags.Changed("scenario") {
		cfg.Run.Scenario = scenarioName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := preset
	if name == "" {
		name = cfg.Run.Scenario
	}
	expCfg := experiment.Config{
		Name:        name,
		Sim:         cfg,
		Logger:      slog.Default(),
		SampleEvery: sampleEvery,
	}

	var results []*experiment.Result
	if numRuns > 1 {
		results, err = experiment.NewEnsemble(expCfg, numRuns, cfg.Spawn.Seed).Run(ctx)
		if err != nil {
			return err
		}
	} else {
		exp, err := experiment.New(expCfg)
		if err != nil {
			return err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		results = []*experiment.Result{res}
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTICKS\tPARTICLES\tENERGY\tCONTAINED\tPENETRATION\tELAPSED")
	for i, res := range results {
		id := res.Name
		if !noSave {
			runCfg := *cfg
			runCfg.Spawn.Seed = cfg.Spawn.Seed + int64(i)
			if id, err = st.Save(&runCfg, res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.3f\t%.3f\t%s\n",
			id,
			res.Ticks,
			len(res.Final),
			res.Metrics["kinetic_energy"],
			res.Metrics["containment"],
			res.Metrics["max_penetration"],
			res.Elapsed.Round(time.Microsecond),
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the console owns the terminal, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger, err := newLogger(out, logFormat, logLevel)
	if err != nil {
		return err
	}

	m, err := console.NewModel(cfg, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSEED\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
			run.Particles,
		)
	}

	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []experiment.Sample, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}

	samples, err := st.LoadTelemetry(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, nil, fmt.Errorf("no telemetry for run %s", runID)
	}

	data, err := experiment.SeriesOf(samples, column)
	if err != nil {
		return nil, nil, nil, err
	}
	return meta, samples, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, _, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(column+" vs time"),
	)
	fmt.Println(graph)

	stats := analysis.Summarize(data)
	fmt.Printf("\nmean %.4f  std %.4f  min %.4f  max %.4f\n", stats.Mean, stats.StdDev, stats.Min, stats.Max)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	// sample spacing from the recorded times; the final row may be closer
	interval := meta.Dt
	if n := len(samples); n > 1 {
		interval = (samples[n-1].Time - samples[0].Time) / float64(n-1)
	}
	if interval <= 0 {
		return fmt.Errorf("run %s has no usable sample interval", meta.ID)
	}
	rate := 1 / interval

	spec, err := analysis.PowerSpectrum(data, rate)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s  sample rate: %.2f hz\n\n", column, rate)

	plotData := spec.Power[:max(2, len(spec.Power)/4)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power, err := analysis.DominantFrequency(data, rate)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz (power %.4g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return storage.ExportJSON(w, meta, samples)
	case "csv":
		return storage.ExportCSV(w, samples)
	}
	return fmt.Errorf("unknown export format: %s", format)
}

func showConfig(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if fromRun != "" {
		cfg, err = storage.New(dataDir).LoadConfig(fromRun)
	} else {
		cfg, err = loadConfig(cmd)
	}
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
