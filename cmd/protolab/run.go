package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/experiment"
	"github.com/san-kum/protolab/internal/viz"
)

// runFlags are shared by run, live and sweep.
type runFlags struct {
	preset     string
	configFile string
	n          int
	alpha      float64
	safety     float64
	tEnd       float64
	every      int
	initial    string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "start from a preset (see 'presets')")
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file (.yaml or .ini)")
	cmd.Flags().IntVar(&f.n, "n", config.DefaultN, "cells per axis")
	cmd.Flags().Float64Var(&f.alpha, "alpha", config.DefaultAlpha, "diffusivity")
	cmd.Flags().Float64Var(&f.safety, "safety", 0, "safety divisor k (dt = bound/k)")
	cmd.Flags().Float64Var(&f.tEnd, "t-end", config.DefaultTEnd, "end time")
	cmd.Flags().IntVar(&f.every, "every", 1, "keep every n-th frame")
	cmd.Flags().StringVar(&f.initial, "initial", "", "initial condition kind")
}

// build layers defaults, preset, config file and changed flags, in that
// order.
func (f *runFlags) build(cmd *cobra.Command, args []string) (*config.Config, error) {
	if len(args) > 0 {
		f.preset = args[0]
	}
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("n") {
		cfg.N = f.n
	}
	if changed("alpha") {
		cfg.Alpha = f.alpha
	}
	if changed("safety") {
		cfg.Safety = f.safety
	}
	if changed("t-end") {
		cfg.TEnd = f.tEnd
	}
	if changed("every") {
		cfg.FrameEvery = f.every
	}
	if changed("initial") {
		cfg.Initial.Kind = f.initial
	}
	return cfg, cfg.Validate()
}

func runCmd() *cobra.Command {
	var f runFlags
	var noSave bool
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a diffusion experiment and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			exp := experiment.New(cfg, experiment.WithLogger(logger()))
			if err := exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg)...); err != nil {
				return err
			}

			fmt.Printf("running %s %s...\n", cfg.Name, exp.Field().Shape())
			start := time.Now()
			result, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("completed in %v\n", time.Since(start))
			printResult(result)

			if noSave {
				return nil
			}
			st := store()
			if err := st.Init(); err != nil {
				return err
			}
			id, err := st.Save(result)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", id)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printResult(r *experiment.Result) {
	last := r.Snapshots[len(r.Snapshots)-1]
	fmt.Printf("steps: %d  dt: %.6g  bound: %.6g  stable: %v\n", r.Steps, r.Dt, r.Bound, r.Stable)
	fmt.Printf("final: energy %.6g  mean %.6g  min %.6g  max %.6g\n",
		last.TotalEnergy, last.MeanValue, last.Min, last.Max)
	printMetrics(r.Metrics)
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, k := range names {
		fmt.Printf("  %s: %.6g\n", k, m[k])
	}
}

func liveCmd() *cobra.Command {
	var f runFlags
	var speed int
	cmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run an experiment with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args)
			if err != nil {
				return err
			}
			return viz.Run(experiment.New(cfg, experiment.WithLogger(logger())), speed)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&speed, "speed", 1, "steps per frame")
	return cmd
}

func sweepCmd() *cobra.Command {
	var f runFlags
	var alphas []float64
	var save bool
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run one experiment per diffusivity in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(alphas) == 0 {
				return fmt.Errorf("no --alphas given")
			}
			cfg, err := f.build(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			results, err := experiment.Sweep(ctx, cfg, alphas, logger())
			if err != nil {
				return err
			}

			st := store()
			if save {
				if err := st.Init(); err != nil {
					return err
				}
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ALPHA\tDT\tSTEPS\tSTABLE\tENERGY\tDRIFT\tSPREAD\tID")
			for _, r := range results {
				id := "-"
				if save {
					if id, err = st.Save(r); err != nil {
						return err
					}
				}
				last := r.Snapshots[len(r.Snapshots)-1]
				fmt.Fprintf(w, "%.4g\t%.4g\t%d\t%v\t%.6g\t%.3g\t%.4g\t%s\n",
					r.Config.Alpha, r.Dt, r.Steps, r.Stable, last.TotalEnergy,
					r.Metrics["conservation_drift"], r.Metrics["spread"], id)
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	cmd.Flags().Float64SliceVar(&alphas, "alphas", nil, "diffusivities to sweep")
	cmd.Flags().BoolVar(&save, "save", false, "store every run")
	return cmd
}

func benchCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time stencil steps on growing grids",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DIMS\tN\tCELLS\tSTEPS\tTIME\tCELLS/SEC")
			for _, dims := range []int{1, 2} {
				for _, n := range []int{64, 256, 1024} {
					if dims == 2 && n > 256 {
						continue
					}
					elapsed, cells, err := benchGrid(dims, n, steps)
					if err != nil {
						return err
					}
					rate := float64(cells*steps) / elapsed.Seconds()
					fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%v\t%.3g\n", dims, n, cells, steps, elapsed, rate)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 200, "steps per grid")
	return cmd
}

func benchGrid(dims, n, steps int) (time.Duration, int, error) {
	shape := diffusion.Shape{n}
	if dims == 2 {
		shape = diffusion.Shape{n, n}
	}
	values := make([]float64, shape.Size())
	values[len(values)/2] = 1
	field, err := diffusion.NewField(shape, 1, values)
	if err != nil {
		return 0, 0, err
	}
	stencil := diffusion.NewStencil(1)
	dt := 1 / (2.0 * float64(dims) * 2)

	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := field.WriteInPlace(stencil.Apply(field, dt)); err != nil {
			return 0, 0, err
		}
	}
	return time.Since(start), shape.Size(), nil
}
