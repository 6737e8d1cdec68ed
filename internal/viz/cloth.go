package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/config"
	"github.com/san-kum/weavesim/internal/metrics"
	"github.com/san-kum/weavesim/internal/tools"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 600
	fps             = 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ClothModel is the live, interactive cloth view.
type ClothModel struct {
	cfg    *config.Config
	state  *cloth.State
	params cloth.Params
	ctrl   *tools.Controller

	canvas   *Canvas
	view     Viewport
	dotSize  float64
	running  bool
	err      error
	t        float64
	frame    int
	broken   int
	torn     int
	lastEff  tools.Effect
	jointLog []float64
	kinLog   []float64

	// The keyboard moves a target; the pointer follows it on a spring.
	spring           harmonica.Spring
	targetX, targetY float64
	velX, velY       float64
}

// NewClothModel builds a live view for cfg. It fails if cfg does not
// describe a valid cloth.
func NewClothModel(cfg *config.Config) (ClothModel, error) {
	m := ClothModel{
		cfg:    cfg,
		canvas: NewCanvas(width, height),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
	}
	if err := m.reset(); err != nil {
		return ClothModel{}, err
	}
	return m, nil
}

func (m ClothModel) Init() tea.Cmd { return tick() }

func (m ClothModel) State() *cloth.State           { return m.state }
func (m ClothModel) Controller() *tools.Controller { return m.ctrl }
func (m ClothModel) Running() bool                 { return m.running }
func (m ClothModel) Frame() int                    { return m.frame }
func (m ClothModel) Err() error                    { return m.err }

// Update handles input events and advances the cloth on each tick.
func (m ClothModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m ClothModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.state.Spacing
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
	case "c":
		m.ctrl.NextTool()
	case "m":
		m.ctrl.NextMode()
	case "d":
		if m.ctrl.Dragging() {
			m.ctrl.EndDrag()
		} else {
			m.ctrl.BeginDrag()
		}
	case "p":
		m.ctrl.PinSelection(m.state)
	case "u":
		m.ctrl.UnpinSelection(m.state)
	case "+", "=":
		m.setDuration(m.cfg.UseDuration + 1)
	case "-", "_":
		m.setDuration(math.Max(0, m.cfg.UseDuration-1))
	case "up", "k":
		m.targetY -= step
	case "down", "j":
		m.targetY += step
	case "left", "h":
		m.targetX -= step
	case "right", "l":
		m.targetX += step
	}
	return m, nil
}

// handleMouse puts the pointer straight under the mouse. In edit mode the
// left button drags out a selection box.
func (m *ClothModel) handleMouse(msg tea.MouseMsg) {
	// Cell origin of the canvas inside canvasStyle's padding.
	const padLeft, padTop = 2, 1
	x, y := m.view.Unproject((msg.X-padLeft)*2, (msg.Y-padTop)*4)
	m.targetX, m.targetY = x, y
	m.velX, m.velY = 0, 0
	m.ctrl.SetPointer(x, y)

	if msg.Button != tea.MouseButtonLeft {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.ctrl.BeginDrag()
	case tea.MouseActionRelease:
		m.ctrl.EndDrag()
	}
}

func (m *ClothModel) setDuration(d float64) {
	old := m.cfg.UseDuration
	m.cfg.UseDuration = d
	p, err := m.cfg.Params()
	if err != nil {
		m.cfg.UseDuration = old
		return
	}
	m.params = p
}

// reset rebuilds the cloth from the config.
func (m *ClothModel) reset() error {
	s, err := m.cfg.Topology()
	if err != nil {
		return err
	}
	p, err := m.cfg.Params()
	if err != nil {
		return err
	}

	m.state, m.params = s, p
	m.ctrl = tools.NewController(m.cfg.ColliderRadius)
	m.dotSize = m.cfg.Resolve().DotSize
	m.running, m.err = true, nil
	m.t, m.frame, m.broken, m.torn = 0, 0, 0, 0
	m.lastEff = tools.Effect{}
	m.jointLog = m.jointLog[:0]
	m.kinLog = m.kinLog[:0]

	lo, hi := s.GridBounds()
	sp := s.Spacing
	span := float64(hi-lo) * sp
	margin := 2 * sp
	m.view = Fit(m.canvas, float64(lo)*sp-margin, float64(lo)*sp-margin,
		float64(hi)*sp+margin, float64(hi)*sp+margin+0.5*span)

	m.targetX, m.targetY = float64(hi)*sp+margin, float64(hi)*sp+margin
	m.velX, m.velY = 0, 0
	m.ctrl.SetPointer(m.targetX, m.targetY)
	return nil
}

// step runs one frame: tools, then physics.
func (m *ClothModel) step() {
	x, y := m.ctrl.Pointer()
	x, m.velX = m.spring.Update(x, m.velX, m.targetX)
	y, m.velY = m.spring.Update(y, m.velY, m.targetY)
	m.ctrl.SetPointer(x, y)

	m.lastEff = m.ctrl.Apply(m.state)
	m.torn += m.lastEff.Torn

	frameDt := 1.0 / fps
	rep := m.state.Frame(frameDt, m.params)
	m.broken += rep.Broken
	m.t += math.Min(frameDt, cloth.MaxFrameDt)
	m.frame++

	if !m.state.IsValid() {
		m.running = false
		m.err = &cloth.StepError{Frame: m.frame, Time: m.t, Wrapped: cloth.ErrInvalidState}
		return
	}

	m.jointLog = appendCapped(m.jointLog, float64(len(m.state.Joints)))
	m.kinLog = appendCapped(m.kinLog, metrics.Kinetic(m.state, cloth.MaxFrameDt/cloth.Substeps))
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *ClothModel) draw() {
	m.canvas.Clear()
	s := m.state

	for _, j := range s.Joints {
		a, b := &s.Points[j.First], &s.Points[j.Second]
		x0, y0 := m.view.Project(a.X, a.Y)
		x1, y1 := m.view.Project(b.X, b.Y)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	r := int(math.Round(m.dotSize * m.view.Scale / 2))
	for i := range s.Points {
		p := &s.Points[i]
		x, y := m.view.Project(p.X, p.Y)
		if p.Pinned {
			m.canvas.FillSquare(x, y, r+1)
		} else {
			m.canvas.FillSquare(x, y, r)
		}
	}

	px, py := m.ctrl.Pointer()
	cx, cy := m.view.Project(px, py)
	m.canvas.DrawCircle(cx, cy, m.ctrl.Radius()*m.view.Scale)
}

// View renders the cloth next to its stats panel.
func (m ClothModel) View() string {
	m.draw()
	canvasView := canvasStyle.Render(dyeStyle(m.cfg.Material, m.cfg.UseDuration).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Material)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(statusFailed.Render("UNSTABLE") + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	s.WriteString(labelStyle.Render("Mode") + activeStyle.Render(strings.ToUpper(m.ctrl.Mode().String())) + "\n")
	s.WriteString(labelStyle.Render("Tool") + activeStyle.Render(m.ctrl.Tool().String()) + "\n")
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Joints", fmt.Sprintf("%d", len(m.state.Joints)))
	row("Broken", fmt.Sprintf("%d", m.broken))
	row("Torn", fmt.Sprintf("%d", m.torn))
	row("Pinned", fmt.Sprintf("%d", m.state.PinnedCount()))
	row("Selected", fmt.Sprintf("%d", len(m.ctrl.Selection())))
	row("Use", fmt.Sprintf("%.0f", m.cfg.UseDuration))
	row("Stiffness", fmt.Sprintf("%.0f", m.params.K))

	strain := metrics.Strain(m.state)
	s.WriteString(labelStyle.Render("Strain") + strainBar(strain, 16) + "\n")

	if len(m.jointLog) > 1 {
		chart := asciigraph.Plot(m.jointLog, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Joints"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Kinetic") + sparkline(m.kinLog, 24) + "\n")

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nC:Tool M:Mode D:Drag P/U:Pin sel\n+/-:Use ←↑↓→:Pointer"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
