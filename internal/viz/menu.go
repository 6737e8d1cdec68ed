package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/weavesim/internal/config"
)

var materialInfo = map[string]string{
	"cotton":    "balanced, everyday weave",
	"wool":      "soft, heavy, fades fast",
	"silk":      "fine, light, highly damped",
	"polyester": "stiff synthetic",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var menuParams = []string{"use_duration", "gravity", "collider_radius", "break_threshold"}

// menu picks a material and its settings before starting the live view.
type menu struct {
	state, cursor int
	materials     []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	live          ClothModel
}

func NewMenu() *menu {
	return &menu{
		state:     stateMenu,
		materials: config.ListPresets(),
		cfg:       config.DefaultConfig(),
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			next, cmd := m.live.Update(msg)
			m.live = next.(ClothModel)
			return m, cmd
		}
	}
	return m, nil
}

func (m menu) handleKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		next, cmd := m.live.Update(msg)
		m.live = next.(ClothModel)
		return m, cmd
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.materials)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg.Material = m.materials[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m menu) configKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	name := menuParams[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setParam(name, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(menuParams)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.param(name))
	case "left", "h":
		m.setParam(name, m.param(name)-0.1)
	case "right", "l":
		m.setParam(name, m.param(name)+0.1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m menu) param(name string) float64 {
	switch name {
	case "use_duration":
		return m.cfg.UseDuration
	case "gravity":
		return m.cfg.Gravity
	case "collider_radius":
		return m.cfg.ColliderRadius
	case "break_threshold":
		return m.cfg.BreakThreshold
	}
	return 0
}

func (m *menu) setParam(name string, v float64) {
	switch name {
	case "use_duration":
		m.cfg.UseDuration = v
	case "gravity":
		m.cfg.Gravity = v
	case "collider_radius":
		m.cfg.ColliderRadius = v
	case "break_threshold":
		m.cfg.BreakThreshold = v
	}
}

func (m menu) start() (menu, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewClothModel(m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m, m.live.Init()
}

func (m menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleAltStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("WEAVESIM") + "\n    " + subStyle.Render("cloth and weave simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.materials {
		desc := materialInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), pickedStyle.Render(fmt.Sprintf("%-12s", name)), dyeStyle(name, 0).Render("████ ")+accentStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleAltStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m menu) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Material)) + "\n    " + subStyle.Render(materialInfo[m.cfg.Material]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range menuParams {
		valStr := fmt.Sprintf("%8.3f", m.param(name))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), pickedStyle.Render(fmt.Sprintf("%-16s", name)), accentStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), idleAltStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + statusFailed.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the material picker and then the live cloth.
func RunInteractive() error {
	_, err := tea.NewProgram(NewMenu(), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

// RunLive starts the live cloth for cfg directly.
func RunLive(cfg *config.Config) error {
	m, err := NewClothModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
