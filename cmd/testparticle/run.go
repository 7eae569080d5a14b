package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log/level"
	"github.com/san-kum/testparticle/internal/config"
	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/integrators"
	"github.com/san-kum/testparticle/internal/metrics"
	"github.com/san-kum/testparticle/internal/storage"
	"github.com/san-kum/testparticle/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/spatial/r3"
)

// runFlags are shared by every command that starts a simulation.
type runFlags struct {
	configFile    string
	preset        string
	profile       string
	integrator    string
	dt            float64
	steps         int
	charge        float64
	mass          float64
	pos           []float64
	vel           []float64
	progressEvery int
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration for the profile")
	fs.StringVar(&f.profile, "profile", d.Profile, "field profile (gyration, exb, gradient or 1-3)")
	fs.StringVar(&f.integrator, "integrator", d.Integrator, "integrator")
	fs.Float64Var(&f.dt, "dt", d.Dt, "timestep")
	fs.IntVar(&f.steps, "steps", d.Steps, "number of stored samples")
	fs.Float64Var(&f.charge, "charge", d.Charge, "particle charge")
	fs.Float64Var(&f.mass, "mass", d.Mass, "particle mass")
	fs.Float64SliceVar(&f.pos, "pos", d.Position[:], "initial position x,y,z")
	fs.Float64SliceVar(&f.vel, "vel", d.Velocity[:], "initial velocity x,y,z")
	fs.IntVar(&f.progressEvery, "progress-every", d.ProgressEvery, "steps between progress updates")
}

// resolve layers defaults, preset, config file and explicitly set flags,
// in that order.
func (f *runFlags) resolve(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		p := config.GetPreset(f.profile, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", f.preset, f.profile, config.ListPresets(f.profile))
		}
		cfg = p
	}

	if f.configFile != "" {
		c, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if fs.Changed("profile") || (f.preset == "" && f.configFile == "") {
		cfg.Profile = f.profile
	}
	if fs.Changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if fs.Changed("dt") {
		cfg.Dt = f.dt
	}
	if fs.Changed("steps") {
		cfg.Steps = f.steps
	}
	if fs.Changed("charge") {
		cfg.Charge = f.charge
	}
	if fs.Changed("mass") {
		cfg.Mass = f.mass
	}
	if fs.Changed("progress-every") {
		cfg.ProgressEvery = f.progressEvery
	}
	if fs.Changed("pos") {
		vec, err := vector("pos", f.pos)
		if err != nil {
			return nil, err
		}
		cfg.Position = vec
	}
	if fs.Changed("vel") {
		vec, err := vector("vel", f.vel)
		if err != nil {
			return nil, err
		}
		cfg.Velocity = vec
	}
	return cfg, nil
}

func vector(name string, vals []float64) (config.Vec, error) {
	if len(vals) != 3 {
		return config.Vec{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(vals))
	}
	return config.Vec{vals[0], vals[1], vals[2]}, nil
}

// signalContext cancels on interrupt so a long run stops between steps.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newRunCmd() *cobra.Command {
	var (
		f        runFlags
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runSimulation(cfg, progress)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")
	return cmd
}

func runSimulation(cfg *config.Config, progress bool) error {
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	sim := dynamo.New(integ)
	sim.SetLogger(logger)
	sim.SetProgressInterval(cfg.ProgressEvery)
	if progress {
		sim.AddObserver(tui.NewProgress(os.Stderr, p.Profile.String()))
	}

	ctx, cancel := signalContext()
	defer cancel()

	x0 := cfg.InitialState()
	fmt.Printf("running %s simulation...\n", p.Profile)
	start := time.Now()

	tr, err := sim.Run(ctx, p, x0)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st, err := openStore()
	if err != nil {
		return err
	}
	rep := metrics.Summarize(tr, p)
	values := rep.Values()
	runID, err := st.Save(storage.NewMetadata(p, x0, cfg.Integrator, values), tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", tr.Len())
	if rep.Diverged {
		fmt.Printf("diverged at sample %d\n", rep.DivergedAt)
	}
	printMetrics(values)
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, values[name])
	}
}

func newSweepCmd() *cobra.Command {
	var (
		f       runFlags
		scales  []float64
		workers int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the same field with scaled initial velocities in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return sweep(cfg, scales, workers)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().Float64SliceVar(&scales, "scales", []float64{0.5, 1, 2}, "initial velocity multipliers")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	return cmd
}

func sweep(cfg *config.Config, scales []float64, workers int) error {
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	base := cfg.InitialState()
	states := make([]dynamo.State, len(scales))
	for i, k := range scales {
		states[i] = dynamo.State{Position: base.Position, Velocity: r3.Scale(k, base.Velocity)}
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	trs, err := dynamo.Sweep(ctx, integ, p, states, workers)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "sweep complete", "runs", len(trs), "elapsed", time.Since(start))

	st, err := openStore()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCALE\tGYRORADIUS\tMAX ΔE/E0\tDRIFT X\tDRIFT Y")
	for i, tr := range trs {
		rep := metrics.Summarize(tr, p)
		id, err := st.Save(storage.NewMetadata(p, states[i], cfg.Integrator, rep.Values()), tr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3g\t%.6g\t%.3e\t%.4g\t%.4g\n",
			id, scales[i], rep.Gyroradius, rep.MaxEnergyDrift, rep.Drift.X, rep.Drift.Y)
	}
	return w.Flush()
}

func newCompareCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return compareIntegrators(cfg, args)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func compareIntegrators(cfg *config.Config, names []string) error {
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	x0 := cfg.InitialState()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing integrators on %s (dt=%g, steps=%d)\n\n", p.Profile, p.Dt, p.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tMAX ΔE/E0\tFINAL X\tFINAL Y\tFINAL Z")
	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			return err
		}
		sim := dynamo.New(integ)
		sim.SetLogger(logger)

		start := time.Now()
		tr, err := sim.Run(ctx, p, x0)
		if err != nil {
			return err
		}
		final := tr.Final().Position
		fmt.Fprintf(w, "%s\t%v\t%.3e\t%.6f\t%.6f\t%.6f\n",
			name, time.Since(start).Round(time.Microsecond), metrics.MaxEnergyDeviation(tr), final.X, final.Y, final.Z)
	}
	return w.Flush()
}
