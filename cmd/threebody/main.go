package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/gui"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	dt         float64
	gravity    float64
	steps      int
	numRuns    int
	logLevel   string
	output     string
	svgWidth   int
	svgHeight  int

	logger *log.Logger
)

// main registers commands and flags, runs the terminal view when no
// subcommand is given, and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:               "threebody",
		Short:             "interactive gravitational n-body lab",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".threebody", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed for start positions (default: current time)")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep per tick")
	pf.Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal view",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive desktop window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same configuration over consecutive seeds",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks per run")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark ticks per second for every preset",
		RunE:  benchPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export body traces to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, ensembleCmd, benchCmd, listCmd, plotCmd, exportSVGCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "threebody",
		ReportTimestamp: true,
	})
	return nil
}

// loadConfig layers the preset, the config file and changed flags, in
// that order, over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLoop(cmd *cobra.Command) (*config.Config, *sim.Loop, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	loop, err := sim.FromConfig(cfg, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loop ready", "preset", cfg.Preset, "bodies", len(cfg.Bodies), "seed", cfg.Seed, "dt", cfg.Dt, "g", cfg.G)
	return cfg, loop, nil
}

// runTUI runs the bubbletea view. Log output would corrupt the screen, so
// it goes to a file in the data directory.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, loop, err := newLoop(cmd)
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if err := os.MkdirAll(dataDir, 0755); err == nil {
		f, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			defer f.Close()
			out = f
		}
	}
	tuiLogger := logger.With()
	tuiLogger.SetOutput(out)

	p := tea.NewProgram(viz.NewModel(loop, cfg.TickRate, tuiLogger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, loop, err := newLoop(cmd)
	if err != nil {
		return err
	}
	gui.Run(loop, gui.Options{
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		TickRate: cfg.TickRate,
	}, logger)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
