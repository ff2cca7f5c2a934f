package export

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/protolab/internal/diffusion"
)

type line struct {
	name  string
	ys    []float64
	color chart.Style
}

func lineChart(w io.Writer, title, yName string, xs []float64, lines []line) error {
	if len(xs) < 2 {
		return fmt.Errorf("chart needs at least two samples, got %d", len(xs))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(lines))
	for _, l := range lines {
		a, b := bounds(l.ys)
		lo, hi = math.Min(lo, a), math.Max(hi, b)
		series = append(series, chart.ContinuousSeries{
			Name:    l.name,
			XValues: xs,
			YValues: l.ys,
			Style:   l.color,
		})
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "time",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// DiagnosticsChart plots the min, mean and max of every sampled snapshot.
func DiagnosticsChart(w io.Writer, title string, times []float64, snaps []diffusion.Snapshot) error {
	mins := make([]float64, len(snaps))
	means := make([]float64, len(snaps))
	maxs := make([]float64, len(snaps))
	for i, s := range snaps {
		mins[i], means[i], maxs[i] = s.Min, s.MeanValue, s.Max
	}

	return lineChart(w, title, "value", times, []line{
		{"max", maxs, chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0}},
		{"mean", means, chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0}},
		{"min", mins, chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0}},
	})
}

// EnergyChart plots total energy against time.
func EnergyChart(w io.Writer, title string, times []float64, snaps []diffusion.Snapshot) error {
	energy := make([]float64, len(snaps))
	for i, s := range snaps {
		energy[i] = s.TotalEnergy
	}
	return lineChart(w, title, "energy", times, []line{
		{"total energy", energy, chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 2.0}},
	})
}
