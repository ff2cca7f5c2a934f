package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r3"
)

// GalaxyView spins a point cloud on a braille canvas.
type GalaxyView struct {
	points  []r3.Vec
	extent  float64
	canvas  *Canvas
	camera  *Camera
	spin    float64
	running bool
	axes    bool
	visible int
	title   string
}

// NewGalaxyView shows pts scaled so that extent fills half the screen.
func NewGalaxyView(title string, pts []r3.Vec, extent float64) GalaxyView {
	cam := NewCamera(extent * 4)
	cam.RotateX(-1.0)
	g := GalaxyView{
		points:  pts,
		extent:  extent,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		spin:    0.03,
		running: true,
		title:   title,
	}
	g.visible = RenderPoints(g.canvas, g.points, g.camera, g.extent)
	return g
}

func (g GalaxyView) Init() tea.Cmd { return tick() }

func (g GalaxyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return g, tea.Quit
		case " ":
			g.running = !g.running
		case "x":
			g.camera.RotateX(0.1)
		case "X":
			g.camera.RotateX(-0.1)
		case "y":
			g.camera.RotateY(0.1)
		case "Y":
			g.camera.RotateY(-0.1)
		case "+", "=":
			g.camera.ZoomIn()
		case "-", "_":
			g.camera.ZoomOut()
		case "a":
			g.axes = !g.axes
		}
		g.redraw()
	case TickMsg:
		if g.running {
			g.camera.RotateZ(g.spin)
			g.redraw()
		}
		return g, tick()
	}
	return g, nil
}

func (g *GalaxyView) redraw() {
	g.visible = RenderPoints(g.canvas, g.points, g.camera, g.extent)
	if g.axes {
		RenderAxes(g.canvas, g.camera, g.extent/2, g.extent)
	}
}

func (g GalaxyView) View() string {
	head := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	var b strings.Builder
	b.WriteString(head.Render(strings.ToUpper(g.title)) + "\n")
	b.WriteString(g.canvas.String() + "\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d points  SP:Spin x/y:Tilt +/-:Zoom A:Axes Q:Quit", g.visible, len(g.points))))
	return b.String()
}

// RunGalaxy opens the galaxy viewer full screen.
func RunGalaxy(title string, pts []r3.Vec, extent float64) error {
	_, err := tea.NewProgram(NewGalaxyView(title, pts, extent), tea.WithAltScreen()).Run()
	return err
}
