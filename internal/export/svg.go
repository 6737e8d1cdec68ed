package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/palette"
)

// ClothToSVG draws the cloth's joints and points, scale pixels per world
// unit, with a 10% margin around the points' bounding box.
func ClothToSVG(s *cloth.State, scale float64, color string) string {
	if s == nil || len(s.Points) == 0 || !(scale > 0) {
		return ""
	}

	minX, maxX := s.Points[0].X, s.Points[0].X
	minY, maxY := s.Points[0].Y, s.Points[0].Y
	for _, p := range s.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	width := rangeX * 1.2 * scale
	height := rangeY * 1.2 * scale

	px := func(x float64) float64 { return (x - minX) * scale }
	py := func(y float64) float64 { return (y - minY) * scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="%s" stroke-width="1">
`, width, height, width, height, color))

	for _, j := range s.Joints {
		a, b := &s.Points[j.First], &s.Points[j.Second]
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, px(a.X), py(a.Y), px(b.X), py(b.Y)))
	}

	sb.WriteString(fmt.Sprintf("</g>\n<g fill=\"%s\">\n", color))
	r := math.Max(1, scale*0.08)
	for _, p := range s.Points {
		fill := ""
		if p.Pinned {
			fill = ` fill="#ffffff"`
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"%s/>
`, px(p.X), py(p.Y), r, fill))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// MaterialColor is the dye color of a material after use, as an SVG color.
func MaterialColor(material string, useDuration float64) string {
	return palette.Fade(material, useDuration).Hex()
}
