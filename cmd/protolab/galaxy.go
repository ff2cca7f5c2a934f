package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/export"
	"github.com/san-kum/protolab/internal/galaxy"
	"github.com/san-kum/protolab/internal/server"
	"github.com/san-kum/protolab/internal/solarsystem"
	"github.com/san-kum/protolab/internal/viz"
)

func galaxyCmd() *cobra.Command {
	var (
		configFile string
		csvOut     string
		pngOut     string
		svgOut     string
		view       bool
		seed       uint64
	)
	cmd := &cobra.Command{
		Use:   "galaxy",
		Short: "generate a spiral galaxy point cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultGalaxyConfig()
			if configFile != "" {
				loaded, err := config.LoadGalaxy(configFile)
				if err != nil {
					return fmt.Errorf("failed to load galaxy config: %w", err)
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			g, err := galaxy.New(cfg)
			if err != nil {
				return err
			}
			comps := g.Build()
			pts, names := comps.All()
			logger().WithField("points", len(pts)).Debug("galaxy built")

			groups := comps.Particles()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COMPONENT\tCOUNT\tMEAN R\tMAX R\tRMS Z")
			for _, c := range []struct {
				name string
				pts  []r3.Vec
			}{{"arm", groups.Arm}, {"core", groups.Core}, {"haze", groups.Haze}, {"total", pts}} {
				s := galaxy.Summarize(c.pts)
				fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\n", c.name, s.Count, s.MeanRadius, s.MaxRadius, s.RMSHeight)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if csvOut != "" {
				if err := writePointsCSV(csvOut, pts, names); err != nil {
					return err
				}
			}
			xs, ys := project(pts)
			extent := g.Radius() * 1.2
			if pngOut != "" {
				f, err := os.Create(pngOut)
				if err != nil {
					return err
				}
				if err := export.DensityPNG(f, xs, ys, extent, 512); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}
			if svgOut != "" {
				svg := export.PointsSVG(xs, ys, extent, 800, "#ffffff")
				if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
					return err
				}
			}
			if view {
				return viz.RunGalaxy("galaxy", pts, extent)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "galaxy config (yaml)")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write x,y,z,component CSV")
	cmd.Flags().StringVar(&pngOut, "png", "", "write a face-on density PNG")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write a face-on SVG scatter")
	cmd.Flags().BoolVar(&view, "view", false, "open the rotating terminal viewer")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	return cmd
}

func project(pts []r3.Vec) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

func writePointsCSV(path string, pts []r3.Vec, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"x", "y", "z", "component"})
	for i, p := range pts {
		w.Write([]string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Z, 'g', -1, 64),
			names[i],
		})
	}
	w.Flush()
	return w.Error()
}

func solarSystemCmd() *cobra.Command {
	var (
		format      string
		barycentric bool
		summary     bool
	)
	cmd := &cobra.Command{
		Use:   "solarsystem",
		Short: "print solar-system initial conditions (AU, AU/day, Msun)",
		RunE: func(cmd *cobra.Command, args []string) error {
			bodies := solarsystem.Catalog()
			ps := solarsystem.Flatten(bodies)
			if barycentric {
				ps = solarsystem.ToBarycentric(ps)
			}

			if summary {
				l := solarsystem.AngularMomentum(ps)
				fmt.Fprintf(os.Stderr, "bodies: %d  mass: %.8g Msun\n", len(ps), solarsystem.TotalMass(ps))
				fmt.Fprintf(os.Stderr, "kinetic: %.6g  potential: %.6g  Lz: %.6g\n",
					solarsystem.KineticEnergy(ps), solarsystem.PotentialEnergy(ps), l.Z)
			}

			switch format {
			case "json":
				if barycentric {
					return fmt.Errorf("--barycentric needs --format jsonl")
				}
				return solarsystem.WriteJSON(os.Stdout, bodies)
			case "jsonl":
				return solarsystem.WriteJSONL(os.Stdout, ps)
			}
			return fmt.Errorf("unknown format %q (json, jsonl)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json (nested) or jsonl (one body per line)")
	cmd.Flags().BoolVar(&barycentric, "barycentric", false, "shift to the barycentric frame")
	cmd.Flags().BoolVar(&summary, "summary", true, "print totals to stderr")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "stream experiment frames over a websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return server.NewServer(addr, logger()).Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9000", "listen address")
	return cmd
}
