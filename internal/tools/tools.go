// Package tools implements the pointer-driven interactions with a cloth:
// pushing, tearing, pinning, unpinning and box selection.
//
// A [Controller] is a small state machine. It has one of three modes, each
// with its own cycle of mutually exclusive tools. Switching mode always
// leaves the controller with [ToolDisabled]. [Controller.Apply] runs the
// active tool once per frame, before the physics substeps.
package tools

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/weavesim/internal/cloth"
)

const (
	DefaultRadius = 0.7
	// MaxPushStep bounds how far a push moves a point in one frame.
	MaxPushStep = 0.01
)

var (
	ErrUnknownMode   = errors.New("tools: unknown mode")
	ErrUnknownTool   = errors.New("tools: unknown tool")
	ErrToolNotInMode = errors.New("tools: tool not available in this mode")
)

type Mode int

const (
	ModeSimulate Mode = iota
	ModePaint
	ModeEdit
)

var modeNames = [...]string{"simulate", "paint", "edit"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Tool int

const (
	ToolDisabled Tool = iota
	ToolPush
	ToolTear
	ToolPin
	ToolUnpin
	ToolSelect
)

var toolNames = [...]string{"disabled", "push", "tear", "pin", "unpin", "select"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if name == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// cycles lists each mode's tools in "next tool" order.
var cycles = map[Mode][]Tool{
	ModeSimulate: {ToolPush, ToolTear, ToolDisabled},
	ModePaint:    {ToolPin, ToolUnpin, ToolDisabled},
	ModeEdit:     {ToolSelect, ToolDisabled},
}

// Tools returns the tools available in a mode.
func Tools(m Mode) []Tool {
	return append([]Tool(nil), cycles[m]...)
}

// Effect counts what one Apply did.
type Effect struct {
	Moved    int
	Torn     int
	Pinned   int
	Unpinned int
	Selected int
}

type Controller struct {
	mode   Mode
	tool   Tool
	radius float64

	x, y float64

	dragging         bool
	anchorX, anchorY float64
	selection        []cloth.GridCoord
}

// NewController starts in simulate mode with the tear tool active.
func NewController(radius float64) *Controller {
	if !(radius > 0) {
		radius = DefaultRadius
	}
	return &Controller{mode: ModeSimulate, tool: ToolTear, radius: radius}
}

func (c *Controller) Mode() Mode { return c.mode }

func (c *Controller) Tool() Tool { return c.tool }

func (c *Controller) Radius() float64 { return c.radius }

func (c *Controller) Dragging() bool { return c.dragging }

func (c *Controller) SetPointer(x, y float64) { c.x, c.y = x, y }

func (c *Controller) Pointer() (x, y float64) { return c.x, c.y }

// Park moves the pointer above and to the right of s's top row, one
// spacing plus the radius clear of any rest point, so no tool reaches it.
func (c *Controller) Park(s *cloth.State) {
	lo, hi := s.GridBounds()
	clear := s.Spacing + c.radius
	c.x = float64(hi)*s.Spacing + clear
	c.y = float64(lo)*s.Spacing - clear
}

func (c *Controller) SetRadius(r float64) {
	if r > 0 {
		c.radius = r
	}
}

// SetMode switches mode, drops any drag in progress and disables the tool.
func (c *Controller) SetMode(m Mode) error {
	if _, ok := cycles[m]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	c.mode = m
	c.tool = ToolDisabled
	c.dragging = false
	return nil
}

// NextMode cycles simulate → paint → edit → simulate.
func (c *Controller) NextMode() {
	_ = c.SetMode((c.mode + 1) % Mode(len(modeNames)))
}

func (c *Controller) SetTool(t Tool) error {
	for _, candidate := range cycles[c.mode] {
		if candidate == t {
			c.tool = t
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrToolNotInMode, t, c.mode)
}

func (c *Controller) NextTool() Tool {
	cycle := cycles[c.mode]
	next := cycle[0]
	for i, t := range cycle {
		if t == c.tool {
			next = cycle[(i+1)%len(cycle)]
			break
		}
	}
	c.tool = next
	return next
}

// BeginDrag anchors a selection box at the pointer.
func (c *Controller) BeginDrag() {
	c.dragging = true
	c.anchorX, c.anchorY = c.x, c.y
}

// EndDrag stops updating the selection; the last one is kept.
func (c *Controller) EndDrag() { c.dragging = false }

func (c *Controller) Selection() []cloth.GridCoord {
	return append([]cloth.GridCoord(nil), c.selection...)
}

func (c *Controller) ClearSelection() { c.selection = nil }

// Apply runs the active tool against s.
func (c *Controller) Apply(s *cloth.State) Effect {
	switch c.tool {
	case ToolPush:
		return Effect{Moved: c.push(s)}
	case ToolTear:
		return Effect{Torn: c.tear(s)}
	case ToolPin:
		return Effect{Pinned: c.pin(s)}
	case ToolUnpin:
		return Effect{Unpinned: c.unpin(s)}
	case ToolSelect:
		if c.dragging {
			c.selection = c.boxSelect(s)
		}
		return Effect{Selected: len(c.selection)}
	}
	return Effect{}
}

func (c *Controller) push(s *cloth.State) int {
	moved := 0
	for i := range s.Points {
		p := &s.Points[i]
		if p.Pinned {
			continue
		}
		d := math.Hypot(c.x-p.X, c.y-p.Y)
		if d >= c.radius || d == 0 {
			continue
		}
		ux, uy := (c.x-p.X)/d, (c.y-p.Y)/d
		step := -math.Min(c.radius-d, MaxPushStep)
		p.X += ux * step
		p.Y += uy * step
		moved++
	}
	return moved
}

func (c *Controller) tear(s *cloth.State) int {
	return s.RemoveJoints(func(j *cloth.Joint) bool {
		a, b := &s.Points[j.First], &s.Points[j.Second]
		if a.Pinned && b.Pinned {
			return false
		}
		return segmentDistance(c.x, c.y, a.X, a.Y, b.X, b.Y) < c.radius
	})
}

// segmentDistance is the distance from (px, py) to the segment a–b. The
// closest point minimizes |a + t(b-a) - p|², a quadratic in t whose vertex
// is clamped to [0, 1].
func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	qa := dx*dx + dy*dy
	t := 0.0
	if qa > 0 {
		qb := 2 * (dx*(ax-px) + dy*(ay-py))
		t = math.Max(0, math.Min(1, -qb/(2*qa)))
	}
	return math.Hypot(ax+t*dx-px, ay+t*dy-py)
}

func (c *Controller) within(p *cloth.Point) bool {
	return math.Hypot(c.x-p.X, c.y-p.Y) < c.radius
}

func (c *Controller) pin(s *cloth.State) int {
	n := 0
	for i := range s.Points {
		if p := &s.Points[i]; !p.Pinned && c.within(p) {
			s.Pin(i)
			n++
		}
	}
	return n
}

func (c *Controller) unpin(s *cloth.State) int {
	n := 0
	for i := range s.Points {
		if p := &s.Points[i]; p.Pinned && c.within(p) {
			s.Unpin(i)
			n++
		}
	}
	return n
}

// boxSelect works on rest positions, so deformation does not affect it.
func (c *Controller) boxSelect(s *cloth.State) []cloth.GridCoord {
	x0, x1 := math.Min(c.anchorX, c.x), math.Max(c.anchorX, c.x)
	y0, y1 := math.Min(c.anchorY, c.y), math.Max(c.anchorY, c.y)

	lo, hi := s.GridBounds()
	var out []cloth.GridCoord
	for i := lo; i <= hi; i++ {
		for j := lo; j <= hi; j++ {
			g := cloth.GridCoord{I: i, J: j}
			x, y := s.RestPosition(g)
			if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
				out = append(out, g)
			}
		}
	}
	return out
}

// PinSelection pins every selected point and reports how many changed.
func (c *Controller) PinSelection(s *cloth.State) int {
	n := 0
	for _, g := range c.selection {
		if i, ok := s.IndexOf(g); ok && !s.Points[i].Pinned {
			s.Pin(i)
			n++
		}
	}
	return n
}

// UnpinSelection releases every selected point and reports how many changed.
func (c *Controller) UnpinSelection(s *cloth.State) int {
	n := 0
	for _, g := range c.selection {
		if i, ok := s.IndexOf(g); ok && s.Points[i].Pinned {
			s.Unpin(i)
			n++
		}
	}
	return n
}
