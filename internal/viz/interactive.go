package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/experiment"
)

var presetInfo = map[string]string{
	"rod":     "1d rod, hot band",
	"plate":   "2d plate, noisy field",
	"impulse": "1d unit impulse",
	"point":   "2d point source",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Picker lists presets, lets the user tweak a few parameters, then runs
// the chosen one in a live Model.
type Picker struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	live          Model
}

var pickerParams = []string{"alpha", "safety", "t_end", "n", "steps/tick"}

func NewPicker() *Picker {
	return &Picker{
		state:      stateMenu,
		presets:    config.ListPresets(),
		paramNames: pickerParams,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	default:
		if p.state == stateSim {
			next, cmd := p.live.Update(msg)
			p.live = next.(Model)
			return p, cmd
		}
	}
	return p, nil
}

func (p Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch p.state {
	case stateMenu:
		return p.menuKey(msg)
	case stateConfig:
		return p.configKey(msg)
	case stateSim:
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		p.cfg = config.GetPreset(p.presets[p.cursor])
		p.state, p.paramCursor, p.err = stateConfig, 0, nil
	}
	return p, nil
}

func (p Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	if p.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(p.editBuf, "%g", &val); err == nil {
				p.setParam(p.paramNames[p.paramCursor], val)
			}
			p.editing, p.editBuf = false, ""
		case "esc":
			p.editing, p.editBuf = false, ""
		case "backspace":
			if len(p.editBuf) > 0 {
				p.editBuf = p.editBuf[:len(p.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					p.editBuf += string(c)
				}
			}
		}
		return p, nil
	}
	switch msg.String() {
	case "q", "esc":
		p.state = stateMenu
	case "up", "k":
		if p.paramCursor > 0 {
			p.paramCursor--
		}
	case "down", "j":
		if p.paramCursor < len(p.paramNames)-1 {
			p.paramCursor++
		}
	case "enter", " ":
		p.editing, p.editBuf = true, fmt.Sprintf("%g", p.param(p.paramNames[p.paramCursor]))
	case "s":
		return p.start()
	}
	return p, nil
}

func (p Picker) param(name string) float64 {
	switch name {
	case "alpha":
		return p.cfg.Alpha
	case "safety":
		return p.cfg.SafetyDivisor()
	case "t_end":
		return p.cfg.TEnd
	case "n":
		return float64(p.cfg.N)
	case "steps/tick":
		return float64(max(p.cfg.FrameEvery, 1))
	}
	return 0
}

func (p *Picker) setParam(name string, v float64) {
	switch name {
	case "alpha":
		p.cfg.Alpha = v
	case "safety":
		p.cfg.Safety = v
	case "t_end":
		p.cfg.TEnd = v
	case "n":
		p.cfg.N = int(v)
	case "steps/tick":
		p.cfg.FrameEvery = int(v)
	}
}

func (p Picker) start() (Picker, tea.Cmd) {
	live, err := NewModel(experiment.New(p.cfg), p.cfg.FrameEvery)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.live, p.state = live, stateSim
	return p, p.live.Init()
}

func (p Picker) View() string {
	switch p.state {
	case stateMenu:
		return p.viewMenu()
	case stateConfig:
		return p.viewConfig()
	case stateSim:
		return p.live.View()
	}
	return ""
}

var (
	pickHead   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickArrow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pickKey.Render(pairs[i]) + pickIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (p Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickHead.Render("PROTOLAB") + "\n    " + pickSub.Render("heat diffusion presets") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := presetInfo[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickArrow.Render("▸"), pickActive.Render(fmt.Sprintf("%-12s", name)), pickValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickIdle.Render(fmt.Sprintf("  %-12s", name)), pickIdle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (p Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickHead.Render(strings.ToUpper(p.cfg.Name)) + "\n    " + pickSub.Render(presetInfo[p.cfg.Name]) + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, name := range p.paramNames {
		val := fmt.Sprintf("%10.4g", p.param(name))
		if p.editing && i == p.paramCursor {
			val = fmt.Sprintf("%10s", p.editBuf+"_")
		}
		if i == p.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pickArrow.Render("▸"), pickActive.Render(fmt.Sprintf("%-12s", name)), pickValue.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", pickIdle.Render(fmt.Sprintf("  %-12s", name)), pickIdle.Render(val)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(p.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the preset picker full screen.
func RunInteractive() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	return err
}
