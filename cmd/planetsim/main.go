package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/planetsim/internal/analysis"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/experiment"
	"github.com/san-kum/planetsim/internal/export"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/san-kum/planetsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	preset     string
	configFile string
	dt         float64
	steps      int
	integrator string
	target     int
	save       bool
	sweepDts   string
	axis       int
	epsilon    float64
	svgSize    int
	logger     = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planetsim",
		Short: "n-body planet simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".planetsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	scenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "two_body", "preset scenario")
		cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides --preset")
		cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from scenario)")
		cmd.Flags().IntVar(&steps, "steps", 0, "number of ticks (default from scenario)")
		cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (default from scenario)")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and print a report",
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&target, "target", 1, "body whose distance from the primary is plotted (-1 for none)")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under --data")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scenario at several timesteps over the same simulated time",
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepDts, "dts", "0.04,0.02,0.01,0.005", "comma separated timesteps")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "step a scenario live in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			return viz.RunWatch(cfg)
		},
	}
	scenarioFlags(watchCmd)

	divergeCmd := &cobra.Command{
		Use:   "diverge [body]",
		Short: "growth rate of a small displacement of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiverge,
	}
	scenarioFlags(divergeCmd)
	divergeCmd.Flags().Float64Var(&epsilon, "eps", 1e-6, "initial displacement along x")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tDT\tSTEPS\tAUTO ORBIT")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%v\n", name, len(p.Bodies), p.Dt, p.Steps, p.AutoOrbit)
			}
			w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a preset scenario as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(preset)
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			logger.Info("wrote scenario", "preset", preset, "path", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "two_body", "preset to write")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "report a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&target, "target", 1, "body whose distance from the primary is plotted")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period of a body about the primary",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&target, "target", 1, "orbiting body")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "coordinate to analyse (0=x, 1=y, 2=z)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id] [path]",
		Short: "draw the trajectories of a stored run",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	rootCmd.AddCommand(runCmd, sweepCmd, watchCmd, divergeCmd, presetsCmd, initCmd,
		listCmd, showCmd, exportJSONCmd, analyzeCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from --config or --preset, then applies
// any flags given explicitly.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("scenario", "name", cfg.Name, "bodies", len(cfg.Bodies), "dt", cfg.Dt, "steps", cfg.Steps, "integrator", cfg.Integrator)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "scenario", cfg.Name, "steps", cfg.Steps)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	if result.Retries > 0 {
		logger.Warn("tick rejected, dt reduced", "retries", result.Retries, "final_dt", result.FinalDt)
	}

	fmt.Println(viz.Report(cfg, result, elapsed, target))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result, runErr)
		if err != nil {
			return err
		}
		logger.Info("saved run", "id", runID, "dir", dataDir)
	}

	if errors.Is(runErr, context.Canceled) {
		logger.Warn("interrupted", "steps", result.StepsTaken)
		return nil
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	dts, err := parseFloats(sweepDts)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweeping", "scenario", cfg.Name, "dts", dts, "duration", cfg.Dt*float64(cfg.Steps))
	results, err := experiment.Sweep(ctx, cfg, dts)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("run failed", "dt", r.Dt, "err", r.Err)
		}
	}

	fmt.Println(viz.SweepTable(results))
	return nil
}

func runDiverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	body, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid body index: %s", args[0])
	}

	rate, err := analysis.Divergence(cfg, body, epsilon)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("perturbed: %s by %g\n", cfg.BodyName(body), epsilon)
	fmt.Printf("divergence rate: %.6f per unit time over t=%g\n", rate, cfg.Dt*float64(cfg.Steps))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tINTEGRATOR\tDT\tSTEPS\tENERGY DRIFT\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.3e\t%s\n",
			r.ID, r.Scenario, r.Integrator, r.Dt, r.Steps, r.Metrics["energy_drift"], r.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := st.LoadScenario(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	result := &experiment.Result{
		Name:       meta.Scenario,
		Frames:     frames,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
		Retries:    meta.Retries,
		Collisions: meta.Collisions,
		FinalDt:    meta.FinalDt,
	}
	fmt.Println(viz.Report(cfg, result, 0, target))
	if meta.Error != "" {
		fmt.Println(viz.StatusError.Render(meta.Error))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cfg, err := st.LoadScenario(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	series, spacing, err := analysis.RelativeCoordinate(frames, cfg.Primary, target, axis)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(series)
	if len(ps) > 4 {
		plot := ps[1 : len(ps)/4+1]
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum, %s about %s", cfg.BodyName(target), cfg.BodyName(cfg.Primary))),
		))
		fmt.Println()
	}

	period, err := analysis.DominantPeriod(series, spacing)
	if err != nil {
		return err
	}
	fmt.Printf("dominant period: %.3f (%d samples every %.4g)\n", period, len(series), spacing)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], []byte(export.TrajectoryToSVG(frames, svgSize)), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "run", args[0], "path", args[1], "frames", len(frames))
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dt %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("no timesteps given")
	}
	return out, nil
}
