package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/logging"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	balls    int
	width    float64
	height   float64
	radius   float64
	mass     float64
	maxSpeed float64
	tick     time.Duration
	seed     int64
	duration time.Duration
	churn    time.Duration
	logPath  string
	noLog    bool

	runs  int
	ticks int

	exportOut string
	plotWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ballsim",
		Short:         "bouncing ball simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "run store directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addTableFlags(runCmd)
	runCmd.Flags().DurationVar(&tick, "tick", config.DefaultTickInterval, "tick interval (0 steps as fast as possible)")
	runCmd.Flags().DurationVar(&duration, "time", 5*time.Second, "run duration")
	runCmd.Flags().DurationVar(&churn, "churn", 0, "add and remove a ball at this interval")
	runCmd.Flags().StringVar(&logPath, "log", config.DefaultLogPath, "diagnostics log (relative to the executable)")
	runCmd.Flags().BoolVar(&noLog, "no-log", false, "disable the diagnostics log")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run headless simulations over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addTableFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 1000, "ticks per run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	plotCmd := &cobra.Command{
		Use:   "plot [ball_id]",
		Short: "plot a ball's trajectory from the diagnostics log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotBall,
	}
	plotCmd.Flags().StringVar(&logPath, "log", config.DefaultLogPath, "diagnostics log (relative to the executable)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-10s %3d balls  r=%-5g m=%-4g %gx%g\n",
					p, cfg.Balls.Count, cfg.Balls.Radius, cfg.Balls.Mass, cfg.Table.Width, cfg.Table.Height)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, exportCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addTableFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().IntVar(&balls, "balls", d.Balls.Count, "number of balls")
	cmd.Flags().Float64Var(&width, "width", d.Table.Width, "table width")
	cmd.Flags().Float64Var(&height, "height", d.Table.Height, "table height")
	cmd.Flags().Float64Var(&radius, "radius", d.Balls.Radius, "ball radius")
	cmd.Flags().Float64Var(&mass, "mass", d.Balls.Mass, "ball mass")
	cmd.Flags().Float64Var(&maxSpeed, "speed", d.Balls.MaxSpeed, "max initial speed per axis")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
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

	applyFlags(cmd, cfg)
	if cfg.Engine.Seed == 0 {
		cfg.Engine.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("balls") {
		cfg.Balls.Count = balls
	}
	if changed("width") {
		cfg.Table.Width = width
	}
	if changed("height") {
		cfg.Table.Height = height
	}
	if changed("radius") {
		cfg.Balls.Radius = radius
	}
	if changed("mass") {
		cfg.Balls.Mass = mass
	}
	if changed("speed") {
		cfg.Balls.MaxSpeed = maxSpeed
	}
	if changed("seed") {
		cfg.Engine.Seed = seed
	}
	if changed("tick") {
		cfg.Engine.TickInterval = tick
	}
	if changed("log") {
		cfg.Telemetry.Path = logPath
	}
	if changed("no-log") {
		cfg.Telemetry.Enabled = !noLog
	}
	if changed("log-level") {
		cfg.Logging.Level = logLevel
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var (
		store    telemetry.Store
		diagPath string
	)
	if cfg.Telemetry.Enabled {
		diagPath, err = telemetry.ResolvePath(cfg.Telemetry.Path)
		if err != nil {
			return err
		}
		store = telemetry.NewFileStore(diagPath)
		log.Info("diagnostics enabled", zap.String("path", diagPath))
	}

	table := physics.Table{Width: cfg.Table.Width, Height: cfg.Table.Height}
	set := metrics.Standard(table)

	opts := sim.OptionsFromConfig(cfg, store, log)
	opts.Observers = set.Observers()
	s := sim.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	created := func(pos physics.Vec2, b *sim.Ball) {
		log.Debug("ball created", zap.Int64("id", b.ID()), zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
	}
	if err := s.Start(cfg.Balls.Count, table.Width, table.Height, created); err != nil {
		s.Dispose()
		return err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Engine.TickInterval == 0 {
		g.Go(func() error {
			for gctx.Err() == nil {
				s.Step()
			}
			return nil
		})
	}
	if churn > 0 {
		g.Go(func() error { return churnBalls(gctx, s, created) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		s.Dispose()
		return err
	}
	elapsed := time.Since(start)

	final := s.Snapshot()
	if err := s.Dispose(); err != nil {
		return err
	}

	meta := storage.RunMetadata{
		Preset:      preset,
		Seed:        cfg.Engine.Seed,
		Dt:          cfg.Engine.Dt,
		Duration:    elapsed.Seconds(),
		Ticks:       uint64(set.Values()["ticks"]),
		Width:       table.Width,
		Height:      table.Height,
		Diagnostics: diagPath,
		Metrics:     set.Values(),
	}
	runID, err := st.Save(meta, final)
	if err != nil {
		return err
	}
	meta.ID = runID
	meta.Balls = len(final)

	fmt.Println(renderSummary(meta, s.TelemetryStats()))
	return nil
}

// churnBalls alternately adds and removes a ball until ctx is done.
func churnBalls(ctx context.Context, s *sim.Simulator, created sim.CreatedFunc) error {
	ticker := time.NewTicker(churn)
	defer ticker.Stop()

	add := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var err error
			if add {
				err = s.AddBall(created)
			} else {
				err = s.RemoveLastBall()
			}
			if errors.Is(err, sim.ErrInvalidState) {
				return nil
			}
			if err != nil {
				return err
			}
			add = !add
		}
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := checkSweep(runs, ticks); err != nil {
		return err
	}

	table := physics.Table{Width: cfg.Table.Width, Height: cfg.Table.Height}
	sets := make([]metrics.Set, runs)
	for i := range sets {
		sets[i] = metrics.Standard(table)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := sim.OptionsFromConfig(cfg, nil, log.Named("sweep"))
	ens := sim.NewEnsemble(opts, runs, cfg.Engine.Seed)

	start := time.Now()
	results, err := ens.Run(ctx, cfg.Balls.Count, ticks, table.Width, table.Height, func(i int) []sim.Observer {
		return sets[i].Observers()
	})
	if err != nil {
		return err
	}
	log.Info("sweep finished", zap.Int("runs", runs), zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tCOLLISIONS\tWALL HITS\tENERGY\tDRIFT\tSPEED")
	for i, r := range results {
		v := sets[i].Values()
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%.4f\t%.2e\t%.4f\n",
			r.Seed, r.Ticks, v["collisions"], v["wall_hits"], v["energy"], v["energy_drift"], v["speed"])
	}
	return w.Flush()
}

func checkSweep(runs, ticks int) error {
	if runs <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", runs)
	}
	if ticks < 0 {
		return fmt.Errorf("--ticks must not be negative, got %d", ticks)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tTICKS\tBALLS\tTABLE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%gx%g\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Ticks,
			run.Balls,
			run.Width,
			run.Height,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if exportOut == "" {
		return st.ExportJSON(args[0], os.Stdout)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := st.ExportJSON(args[0], f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], exportOut)
	return nil
}

func plotBall(cmd *cobra.Command, args []string) error {
	id, err := parseBallID(args[0])
	if err != nil {
		return err
	}

	path, err := telemetry.ResolvePath(logPath)
	if err != nil {
		return err
	}
	records, err := telemetry.ReadLog(path)
	if err != nil {
		return err
	}

	xs, ys := trajectory(records, id)
	if len(xs) == 0 {
		return fmt.Errorf("no records for ball %d in %s", id, path)
	}

	fmt.Printf("log: %s\n", path)
	fmt.Printf("ball: %d\n", id)
	fmt.Printf("samples: %d\n\n", len(xs))

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{xs, "x position"},
		{ys, "y position"},
	} {
		graph := asciigraph.Plot(downsample(series.data, plotWidth),
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}
