package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/tandria/orbitlab/internal/config"
	"github.com/tandria/orbitlab/internal/orbit"
	"github.com/tandria/orbitlab/internal/server"
	"github.com/tandria/orbitlab/internal/storage"
	"github.com/tandria/orbitlab/internal/vec"
	"github.com/tandria/orbitlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	scenario  string
	seed      int64
	trailLen  int
	starCount int
	frameRate int
	minSats   int
	maxSats   int

	// headless run parameters
	ticks       int
	sampleEvery int

	// serve parameters
	addr string
)

// main is the entry point for the orbitlab CLI; it registers commands and
// flags and launches the live view when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitlab",
		Short: "gravitational orbit simulation lab",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "", "scenario (random or classic)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = wall clock)")
	rootCmd.PersistentFlags().IntVar(&trailLen, "trail", 0, "trail length in points")
	rootCmd.PersistentFlags().IntVar(&starCount, "stars", -1, "background star count")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", 0, "frame rate")
	rootCmd.PersistentFlags().IntVar(&minSats, "min-satellites", 0, "minimum satellite count")
	rootCmd.PersistentFlags().IntVar(&maxSats, "max-satellites", 0, "maximum satellite count")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with live visualization",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation headless and record it",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 5000, "number of ticks to simulate")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 10, "record a frame every N ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a recorded run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the simulation to websocket viewers",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, presetsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration: defaults, then preset, then
// config file, then CLI flags, most specific last.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenario
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("trail") {
		cfg.TrailLength = trailLen
	}
	if cmd.Flags().Changed("stars") {
		cfg.Stars = starCount
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}
	if cmd.Flags().Changed("min-satellites") {
		cfg.MinSatellites = minSats
	}
	if cmd.Flags().Changed("max-satellites") {
		cfg.MaxSatellites = maxSats
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildWorld assembles the world, generator, and starfield from the
// configuration. The generator is nil for the classic scenario.
func buildWorld(cfg *config.Config) (*orbit.World, *orbit.Generator, *orbit.Starfield, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	var (
		gen    *orbit.Generator
		bodies []*orbit.Body
	)
	if cfg.Scenario == "classic" {
		bodies = orbit.ClassicScenario(cfg.G, cfg.TrailLength)
	} else {
		g, err := orbit.NewGenerator(cfg.GeneratorConfig(), rng)
		if err != nil {
			return nil, nil, nil, err
		}
		gen = g
		bodies = gen.Generate()
	}

	world := orbit.NewWorld(bodies, cfg.G, cfg.CullDistance)

	half := cfg.MaxOrbitRadius * 1.5
	stars := orbit.NewStarfield(cfg.Stars, half, half, rng)

	return world, gen, stars, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	world, gen, stars, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	return viz.Run(world, gen, stars, cfg)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	world, _, _, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if sampleEvery < 1 {
		sampleEvery = 1
	}

	fmt.Printf("simulating %d ticks...\n", ticks)
	start := time.Now()

	frames := make([]storage.Frame, 0, ticks/sampleEvery+1)
	frames = append(frames, storage.Snapshot(0, world.Bodies))
	for i := 1; i <= ticks; i++ {
		world.Step(false)
		if i%sampleEvery == 0 {
			frames = append(frames, storage.Snapshot(world.Ticks(), world.Bodies))
		}
	}

	elapsed := time.Since(start)

	p := world.Momentum()
	diagnostics := map[string]float64{
		"energy":           world.Energy(),
		"momentum_x":       p.X,
		"momentum_y":       p.Y,
		"angular_momentum": world.AngularMomentum(),
	}

	runID, err := st.Save(cfg.Scenario, cfg.Seed, cfg.G, frames, diagnostics)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("bodies remaining: %d\n", len(world.Bodies))
	fmt.Println("\ndiagnostics:")
	for name, val := range diagnostics {
		fmt.Printf("  %s: %.6f\n", name, val)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSEED\tTICKS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
			run.FinalBodies,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	counts := make([]float64, len(frames))
	energies := make([]float64, len(frames))
	for i, frame := range frames {
		counts[i] = float64(len(frame.Bodies))
		energies[i] = frameEnergy(frame, meta.G)
	}

	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("body count"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))

	return nil
}

// frameEnergy rebuilds a recorded frame as bodies and reuses the world's
// energy diagnostic.
func frameEnergy(frame storage.Frame, g float64) float64 {
	bodies := make([]*orbit.Body, 0, len(frame.Bodies))
	for _, s := range frame.Bodies {
		bodies = append(bodies, orbit.NewBody(
			vec.New(s.X, s.Y),
			vec.New(s.VX, s.VY),
			s.Mass,
			orbit.RGBA{},
			0,
		))
	}
	return orbit.NewWorld(bodies, g, 0).Energy()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	world, gen, _, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(world, gen, cfg).ListenAndServe(ctx, addr)
}
