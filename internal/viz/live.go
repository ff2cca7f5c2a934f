package viz

import (
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/experiment"
	"github.com/san-kum/protolab/internal/export"
)

const (
	width           = 64
	height          = 20
	historyCapacity = 600
	maxStepsPerTick = 1 << 12
)

// Snapshot stores a past frame for replay.
type Snapshot struct {
	Step        int
	Time        float64
	Values      []float64
	Diagnostics diffusion.Snapshot
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model runs an experiment a few steps per tick and draws the field.
type Model struct {
	exp          *experiment.Experiment
	title        string
	stepsPerTick int
	running      bool
	lo, hi       float64
	current      Snapshot
	energy       []float64
	history      []Snapshot
	playHead     int
	recording    bool
	frames       []*image.Paletted
	gifPath      string
	showHelp     bool
	err          error
}

// NewModel sets up exp and returns a model that advances it stepsPerTick
// steps on every tick.
func NewModel(exp *experiment.Experiment, stepsPerTick int) (Model, error) {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	m := Model{
		exp:          exp,
		title:        exp.Config().Name,
		stepsPerTick: stepsPerTick,
		running:      true,
		gifPath:      "diffusion.gif",
		playHead:     -1,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// WithGIFPath sets where recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the run.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "g":
			if m.recording {
				m.err = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				if m.advance() && m.recording {
					m.captureFrame()
				}
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the driver and reports whether anything changed.
func (m *Model) advance() bool {
	d := m.exp.Driver()
	var last diffusion.Frame
	stepped := false
	for i := 0; i < m.stepsPerTick; i++ {
		fr, ok := d.Step()
		if !ok {
			break
		}
		m.exp.Observe(fr)
		last, stepped = fr, true
	}
	if !stepped {
		return false
	}
	m.current = Snapshot{Step: last.Step, Time: last.Time, Values: last.Field.Copy(), Diagnostics: last.Diagnostics}
	m.push(m.current)
	return true
}

func (m *Model) push(s Snapshot) {
	m.energy = append(m.energy, s.Diagnostics.TotalEnergy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	m.history = append(m.history, s)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the initial field and restarts the driver.
func (m *Model) reset() error {
	cfg := m.exp.Config()
	if err := m.exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg)...); err != nil {
		return err
	}
	initial := m.exp.Initial()
	m.lo, m.hi = valueRange(initial)
	diag := diffusion.NewDiagnostics(cfg.EnergyFactor).Summarize(m.exp.Field().Read())
	m.current = Snapshot{Time: cfg.TStart, Values: initial, Diagnostics: diag}
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.push(m.current)
	return nil
}

func valueRange(vs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// shown is the frame on screen: the live one or the one under the play head.
func (m Model) shown() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.current
}

func (m Model) rows(s Snapshot) [][]float64 {
	shape := m.exp.Field().Shape()
	if len(shape) == 1 {
		return [][]float64{s.Values}
	}
	rows := make([][]float64, shape[0])
	for i := range rows {
		rows[i] = s.Values[i*shape[1] : (i+1)*shape[1]]
	}
	return rows
}

func (m Model) drawField(s Snapshot) string {
	if m.exp.Field().Dims() == 1 {
		return asciigraph.Plot(s.Values,
			asciigraph.Height(height-4),
			asciigraph.Width(width),
			asciigraph.LowerBound(m.lo),
			asciigraph.UpperBound(m.hi),
			asciigraph.Caption(fmt.Sprintf("u(x)  t=%.4g", s.Time)),
		)
	}
	return Shade(m.rows(s), width, height, m.lo, m.hi)
}

func (m Model) status() string {
	d := m.exp.Driver()
	switch {
	case m.playHead != -1:
		return fmt.Sprintf("REPLAY %d/%d", m.playHead+1, len(m.history))
	case d.State() == diffusion.Done:
		return "DONE"
	case !m.running:
		return "PAUSED"
	}
	return "RUNNING"
}

// View renders the TUI interface.
func (m Model) View() string {
	th := CurrentTheme
	header := lipgloss.NewStyle().Foreground(th.Primary).Bold(true).MarginBottom(1)
	accent := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)

	s := m.shown()
	clock := m.exp.Driver().Clock()
	sched := m.exp.Scheduler()
	cfg := m.exp.Config()

	var b strings.Builder
	b.WriteString(header.Render(strings.ToUpper(m.title)) + "\n")
	status := m.status()
	if m.recording {
		status += "  ● REC"
	}
	b.WriteString(accent.Render(status) + "\n\n")

	span := clock.End() - clock.Start()
	progress := 1.0
	if span > 0 {
		progress = (s.Time - clock.Start()) / span
	}
	b.WriteString(ProgressBar(progress, 30) + "\n\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	line("Step", fmt.Sprintf("%d", s.Step))
	line("Time", fmt.Sprintf("%.4g / %.4g", s.Time, clock.End()))
	line("dt", fmt.Sprintf("%.4g", sched.Dt()))
	line("Bound", fmt.Sprintf("%.4g", sched.Bound()))
	if !sched.StableFor(cfg.Dims) {
		line("Stable", lipgloss.NewStyle().Foreground(th.Error).Render("no"))
	} else {
		line("Stable", "yes")
	}
	line("Energy", fmt.Sprintf("%.6g", s.Diagnostics.TotalEnergy))
	line("Mean", fmt.Sprintf("%.6g", s.Diagnostics.MeanValue))
	line("Min/Max", fmt.Sprintf("%.4g / %.4g", s.Diagnostics.Min, s.Diagnostics.Max))
	line("Speed", fmt.Sprintf("%d steps/tick", m.stepsPerTick))

	if vals := m.exp.MetricValues(); len(vals) > 0 {
		b.WriteString("\nMETRICS\n")
		names := make([]string, 0, len(vals))
		for k := range vals {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			b.WriteString(fmt.Sprintf("  %-20s %.4g\n", k, vals[k]))
		}
	}

	if len(m.energy) > 1 {
		b.WriteString("\n" + labelStyle.Render("Energy") + Sparkline(m.energy, 30) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme G:Record\n[ ]:Scrub ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.drawField(s)), statsStyle.Render(b.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to initial field   ║
║  Q        - Quit                     ║
║  + / -    - Double/halve speed       ║
║  [ / ]    - Scrub recent frames      ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + body
	}
	return body
}

func (m *Model) captureFrame() {
	rows := m.rows(m.current)
	scale := 4
	if len(rows) == 1 {
		// Stretch a rod into a visible strip.
		strip := make([][]float64, 8)
		for i := range strip {
			strip[i] = rows[0]
		}
		rows = strip
	}
	m.frames = append(m.frames, export.Heatmap(rows, scale, m.lo, m.hi))
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the live view full screen.
func Run(exp *experiment.Experiment, stepsPerTick int) error {
	m, err := NewModel(exp, stepsPerTick)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
