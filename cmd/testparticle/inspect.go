package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/testparticle/internal/analysis"
	"github.com/san-kum/testparticle/internal/config"
	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/export"
	"github.com/san-kum/testparticle/internal/field"
	"github.com/san-kum/testparticle/internal/metrics"
	"github.com/san-kum/testparticle/internal/storage"
	"github.com/san-kum/testparticle/internal/viz"
	"github.com/spf13/cobra"
)

// loadRun reads a stored run and rebuilds the parameters it was made with.
func loadRun(runID string) (*storage.RunMetadata, *dynamo.Trajectory, dynamo.Params, error) {
	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, dynamo.Params{}, err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, dynamo.Params{}, err
	}
	profile, err := field.ParseProfile(meta.Profile)
	if err != nil {
		return nil, nil, dynamo.Params{}, err
	}
	p := dynamo.Params{
		Charge:  meta.Charge,
		Mass:    meta.Mass,
		Dt:      meta.Dt,
		Steps:   meta.Steps,
		Profile: profile,
	}
	return meta, tr, p, nil
}

// finitePrefix cuts a series at the first non-finite value; asciigraph
// cannot scale past it.
func finitePrefix(data []float64) []float64 {
	for i, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return data[:i]
		}
	}
	return data
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := newStore().List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROFILE\tTIME\tDURATION\tDT\tSTEPS\tINTEG")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.4f\t%d\t%s\n",
					run.ID,
					run.Profile,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration(),
					run.Dt,
					run.Steps,
					run.Integrator,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var components []string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state components against time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("profile: %s\n", meta.Profile)
			fmt.Printf("samples: %d\n\n", tr.Len())

			for _, name := range components {
				sel, ok := analysis.Selectors[name]
				if !ok {
					return fmt.Errorf("unknown component: %s", name)
				}
				data := finitePrefix(tr.Component(sel))
				if len(data) == 0 {
					fmt.Printf("%s: no finite samples\n\n", name)
					continue
				}
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(name+" vs time"),
				))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&components, "components", []string{"x", "y", "z"}, "components to plot (x, y, z, vx, vy, vz)")
	return cmd
}

func newEnergyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "energy [run_id]",
		Short: "plot relative kinetic energy deviation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			dev := finitePrefix(metrics.EnergyDeviation(tr))
			if len(dev) == 0 {
				return fmt.Errorf("run %s has no finite energy samples", meta.ID)
			}

			fmt.Printf("run: %s\n\n", meta.ID)
			fmt.Println(asciigraph.Plot(dev,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("(E - E0) / E0"),
			))
			fmt.Printf("\nmax |ΔE/E0|: %.3e\n", metrics.MaxEnergyDeviation(tr))
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "gyration and drift analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, p, err := loadRun(args[0])
			if err != nil {
				return err
			}
			rep := metrics.Summarize(tr, p)

			fmt.Printf("run: %s (%s, q=%g, m=%g)\n\n", meta.ID, meta.Profile, meta.Charge, meta.Mass)
			if rep.Diverged {
				fmt.Printf("diverged at sample %d, results below cover the whole run\n\n", rep.DivergedAt)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "gyroradius (analytic)\t%.6g\n", rep.Gyroradius)
			fmt.Fprintf(w, "gyro period (analytic)\t%.6g\n", rep.GyroPeriod)
			if rep.GyroPeriod > 0 && !math.IsInf(rep.GyroPeriod, 0) {
				fmt.Fprintf(w, "gyro frequency (analytic)\t%.6g\n", 2*math.Pi/rep.GyroPeriod)
			}
			if omega, err := analysis.GyroFrequency(tr, analysis.VelocityX); err == nil {
				fmt.Fprintf(w, "gyro frequency (spectrum)\t%.6g\n", omega)
			}
			if period, ok := analysis.MeanPeriod(analysis.Crossings(tr, analysis.VelocityX, 0)); ok {
				fmt.Fprintf(w, "gyro period (crossings)\t%.6g\n", period)
			}
			fmt.Fprintf(w, "drift velocity\t(%.4g, %.4g, %.4g)\n", rep.Drift.X, rep.Drift.Y, rep.Drift.Z)
			fmt.Fprintf(w, "max |ΔE/E0|\t%.3e\n", rep.MaxEnergyDrift)
			return w.Flush()
		},
	}
}

func newPhaseCmd() *cobra.Command {
	var plane string
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "orbit projected onto a coordinate plane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := analysis.ParsePlane(plane)
			if err != nil {
				return err
			}
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			h, v := pl.Labels()
			fmt.Printf("run: %s  %s vs %s\n\n", meta.ID, v, h)
			fmt.Print(analysis.PortraitASCII(analysis.Project(tr, pl), 70, 25))
			return nil
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "xy", "display plane (xy, xz, yz or 12, 13, 23)")
	return cmd
}

func newTraceCmd() *cobra.Command {
	var (
		plane  string
		stride int
	)
	cmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "replay a run point by point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := analysis.ParsePlane(plane)
			if err != nil {
				return err
			}
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			m := viz.NewTrace(tr, pl, meta.ID)
			m.SetStride(stride)
			return viz.Run(m)
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "xy", "display plane")
	cmd.Flags().IntVar(&stride, "stride", 1, "samples advanced per frame")
	return cmd
}

func newSVGCmd() *cobra.Command {
	var (
		plane, output, color string
		width, height        int
	)
	cmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the orbit as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := analysis.ParsePlane(plane)
			if err != nil {
				return err
			}
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			svg := export.TrajectorySVG(analysis.Project(tr, pl), pl, width, height, color)
			if svg == "" {
				return fmt.Errorf("run %s has too few samples to draw", meta.ID)
			}
			if output == "" {
				output = meta.ID + ".svg"
			}
			if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "xy", "display plane")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	cmd.Flags().StringVar(&color, "color", "#00ccff", "stroke colour")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 600, "image height")
	return cmd
}

// outputWriter returns stdout for an empty path.
func outputWriter(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newExportCSVCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			w, err := outputWriter(output)
			if err != nil {
				return err
			}
			defer w.Close()
			return storage.WriteCSV(w, tr)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, _, err := loadRun(args[0])
			if err != nil {
				return err
			}
			w, err := outputWriter(output)
			if err != nil {
				return err
			}
			defer w.Close()
			return export.JSON(w, *meta, tr)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [profile]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := make([]string, 0, len(config.Presets))
			if len(args) == 1 {
				profiles = append(profiles, args[0])
			} else {
				for name := range config.Presets {
					profiles = append(profiles, name)
				}
				sort.Strings(profiles)
			}

			for _, profile := range profiles {
				presets := config.ListPresets(profile)
				if len(presets) == 0 {
					fmt.Printf("no presets for profile: %s\n", profile)
					continue
				}
				sort.Strings(presets)
				fmt.Printf("presets for %s:\n", profile)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}
}
