package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/protolab/internal/analysis"
	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/export"
	"github.com/san-kum/protolab/internal/storage"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := store().List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tSHAPE\tALPHA\tDT\tSTEPS\tSTABLE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%.4g\t%d\t%v\n",
					run.ID,
					run.Name,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Shape,
					alphaColumn(run.Config),
					run.Dt,
					run.Steps,
					run.Stable,
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot diagnostics and the final profile in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			_, snaps, err := st.LoadDiagnostics(args[0])
			if err != nil {
				return err
			}
			if len(snaps) < 2 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("shape: %v  samples: %d\n\n", meta.Shape, len(snaps))

			energy := make([]float64, len(snaps))
			means := make([]float64, len(snaps))
			for i, s := range snaps {
				energy[i], means[i] = s.TotalEnergy, s.MeanValue
			}
			fmt.Println(asciigraph.Plot(energy, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("total energy")))
			fmt.Println()
			fmt.Println(asciigraph.Plot(means, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("mean value")))
			fmt.Println()

			if len(meta.Shape) == 1 {
				final, err := st.LoadField(args[0], storage.Final)
				if err != nil {
					return err
				}
				fmt.Println(asciigraph.Plot(final[0], asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("final profile")))
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := store().Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its diagnostics and fields as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := store().Export(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(os.Stdout, data)
		},
	}
}

// alphaColumn is "-" for runs saved without their configuration.
func alphaColumn(cfg *config.Config) string {
	if cfg == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", cfg.Alpha)
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral and stability analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if meta.Config == nil {
				return fmt.Errorf("run %s has no stored config", meta.ID)
			}
			initial, err := st.LoadField(args[0], storage.Initial)
			if err != nil {
				return err
			}
			final, err := st.LoadField(args[0], storage.Final)
			if err != nil {
				return err
			}

			fmt.Printf("analysis: %s\n", meta.ID)
			dims := len(meta.Shape)
			r := analysis.MeshRatio(meta.Config.Alpha, meta.Dt, meta.Dx)
			g := analysis.MaxAmplification(r, dims)
			fmt.Printf("mesh ratio r: %.4g\n", r)
			fmt.Printf("worst amplification |G|: %.4g (stable: %v)\n\n", g, g <= 1)

			var before, after []float64
			if dims == 1 {
				before = analysis.PowerSpectrum(initial[0])
				after = analysis.PowerSpectrum(final[0])
				fmt.Printf("variance: %.6g -> %.6g\n",
					analysis.Variance(initial[0], meta.Dx), analysis.Variance(final[0], meta.Dx))
			} else {
				before = analysis.RadialSpectrum(initial)
				after = analysis.RadialSpectrum(final)
			}
			fmt.Printf("dominant mode: %d -> %d\n\n", analysis.DominantMode(before), analysis.DominantMode(after))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tINITIAL\tFINAL")
			for k := 0; k < len(after) && k < 10; k++ {
				fmt.Fprintf(w, "%d\t%.4g\t%.4g\n", k, before[k], after[k])
			}
			return w.Flush()
		},
	}
}

func chartCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "write PNG charts, a heatmap and an SVG profile for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			times, snaps, err := st.LoadDiagnostics(args[0])
			if err != nil {
				return err
			}
			initial, err := st.LoadField(args[0], storage.Initial)
			if err != nil {
				return err
			}
			final, err := st.LoadField(args[0], storage.Final)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(viper.GetString("data"), meta.ID)
			}
			if err := os.MkdirAll(out, 0755); err != nil {
				return err
			}

			written := []string{}
			write := func(name string, fn func(*os.File) error) error {
				path := filepath.Join(out, name)
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := fn(f); err != nil {
					f.Close()
					return fmt.Errorf("%s: %w", name, err)
				}
				written = append(written, path)
				return f.Close()
			}

			if err := write("diagnostics.png", func(f *os.File) error {
				return export.DiagnosticsChart(f, meta.Name, times, snaps)
			}); err != nil {
				return err
			}
			if err := write("energy.png", func(f *os.File) error {
				return export.EnergyChart(f, meta.Name, times, snaps)
			}); err != nil {
				return err
			}
			if err := write("field.png", func(f *os.File) error {
				return export.HeatmapPNG(f, final, 8)
			}); err != nil {
				return err
			}
			if len(meta.Shape) == 1 {
				if err := write("profile.svg", func(f *os.File) error {
					_, err := f.WriteString(export.ProfileSVG([][]float64{initial[0], final[0]}, meta.Dx, 800, 300, "#888888", "#ff8800"))
					return err
				}); err != nil {
					return err
				}
			}

			for _, p := range written {
				fmt.Println(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (default <data>/<run_id>)")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tDIMS\tN\tALPHA\tT_END\tINITIAL")
				for _, name := range config.ListPresets() {
					p := config.GetPreset(name)
					fmt.Fprintf(w, "%s\t%d\t%d\t%.4g\t%.4g\t%s\n", name, p.Dims, p.N, p.Alpha, p.TEnd, p.Initial.Kind)
				}
				return w.Flush()
			}
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
}
