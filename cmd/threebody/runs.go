package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, loop, err := newLoop(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := cfg.Preset
	if name == "" {
		name = "custom"
	}
	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, err := loop.Simulate(ctx, cfg.Steps)
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		logger.Warn("simulation stopped early", "step", simErr.Step, "time", simErr.Time, "err", simErr)
	} else if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset: cfg.Preset,
		Seed:   cfg.Seed,
		Dt:     cfg.Dt,
		G:      cfg.G,
	}, result)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "dir", dataDir)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	factory := func(seed int64) (*sim.Loop, error) {
		return sim.FromConfig(cfg, seed)
	}
	start := time.Now()
	results, err := sim.NewEnsemble(factory, numRuns, cfg.Seed).Run(ctx, cfg.Steps)
	if err != nil {
		return err
	}
	logger.Info("ensemble finished", "runs", numRuns, "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tSTABILITY")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.3e\t%.3f\n",
			cfg.Seed+int64(i),
			r.StepsTaken,
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			r.Metrics["stability"],
		)
	}
	return w.Flush()
}

func benchPresets(cmd *cobra.Command, args []string) error {
	const benchSteps = 10000

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	ctx, cancel := signalContext()
	defer cancel()

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		loop, err := sim.FromConfig(cfg, 42)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := loop.Simulate(ctx, benchSteps)
		if err != nil && !errors.Is(err, dynamo.ErrUnstable) {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			name, len(cfg.Bodies), result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	}

	return w.Flush()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tBODIES\tSTEPS\tDT\tG\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4g\t%.4g\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Masses),
			run.Steps,
			run.Dt,
			run.G,
			run.Seed,
		)
	}

	return w.Flush()
}

// plotRun charts total energy and each body's distance from the center
// of mass over the run.
func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(result.States))

	g := physics.NewGravity(meta.G)
	n := len(meta.Masses)
	energy := make([]float64, 0, len(result.States))
	dist := make([][]float64, n)

	for _, row := range result.States {
		bodies, err := dynamo.Unflatten(row, meta.Masses)
		if err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}
		energy = append(energy, g.Energy(bodies))
		com := physics.CenterOfMass(bodies)
		for i, b := range bodies {
			dist[i] = append(dist[i], r2.Norm(r2.Sub(b.Pos, com)))
		}
	}

	plots := [][]float64{energy}
	captions := []string{"total energy"}
	for i := range dist {
		plots = append(plots, dist[i])
		captions = append(captions, fmt.Sprintf("body %d (m=%.4g) distance from center of mass", i, meta.Masses[i]))
	}

	for i, data := range plots {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[i]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	traces := export.TracesFromStates(result.States, len(meta.Masses))
	svg := export.TracesToSVG(traces, svgWidth, svgHeight, sim.DefaultPalette)
	if svg == "" {
		return fmt.Errorf("run %s has no traces", runID)
	}

	path := output
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	if output == "" {
		return storage.ExportJSON(os.Stdout, meta, result)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, meta, result); err != nil {
		return err
	}
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tDT\tMASSES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		masses := make([]string, len(cfg.Bodies))
		for i, b := range cfg.Bodies {
			masses[i] = fmt.Sprintf("%.4g", b.Mass)
		}
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%s\n", name, len(cfg.Bodies), cfg.Dt, strings.Join(masses, ","))
	}
	return w.Flush()
}
