package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel buffer. Its size in sub-pixels is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	row, col, bit, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= bit
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.locate(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) locate(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillSquare lights a (2r+1)-wide block centred on (x, y).
func (c *Canvas) FillSquare(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// DrawCircle outlines a circle of radius r sub-pixels.
func (c *Canvas) DrawCircle(x, y int, r float64) {
	if r <= 0 {
		c.Set(x, y)
		return
	}
	n := max(8, int(2*math.Pi*r))
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		c.Set(x+int(math.Round(r*math.Cos(a))), y+int(math.Round(r*math.Sin(a))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas sub-pixels. World y grows
// downward, like the screen.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	OffX, OffY int
}

// Fit returns the largest uniform-scale viewport showing the world
// rectangle [minX, maxX] x [minY, maxY] centred on c.
func Fit(c *Canvas, minX, minY, maxX, maxY float64) Viewport {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	w, h := maxX-minX, maxY-minY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	scale := math.Min(cw/w, ch/h)
	return Viewport{
		MinX:  minX,
		MinY:  minY,
		Scale: scale,
		OffX:  int((cw - w*scale) / 2),
		OffY:  int((ch - h*scale) / 2),
	}
}

func (v Viewport) Project(x, y float64) (int, int) {
	return v.OffX + int(math.Round((x-v.MinX)*v.Scale)),
		v.OffY + int(math.Round((y-v.MinY)*v.Scale))
}

// Unproject inverts Project for sub-pixel coordinates.
func (v Viewport) Unproject(px, py int) (float64, float64) {
	return v.MinX + float64(px-v.OffX)/v.Scale, v.MinY + float64(py-v.OffY)/v.Scale
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
