package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/san-kum/weavesim/internal/draft"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	MinCell       = 2
	captionHeight = 24
	fontSize      = 12.0
)

// ErrEmptyDraft indicates a draft with no picks or no threads.
var ErrEmptyDraft = errors.New("export: draft has an empty drawdown")

// DrawdownPNG writes the colored drawdown as a PNG, cell pixels per
// intersection with a one-pixel gap between cells. A non-empty caption is
// printed beneath the grid.
func DrawdownPNG(w io.Writer, d *draft.Draft, cell int, caption string) error {
	grid := d.ColoredDrawdown()
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ErrEmptyDraft
	}
	cell = max(cell, MinCell)

	rows, cols := len(grid), len(grid[0])
	imgW, imgH := cols*cell, rows*cell
	if caption != "" {
		imgH += captionHeight
	}

	dc := gg.NewContext(imgW, imgH)
	dc.SetRGB255(32, 32, 32)
	dc.Clear()

	for i, row := range grid {
		for j, c := range row {
			dc.SetRGB255(int(c.R), int(c.G), int(c.B))
			dc.DrawRectangle(float64(j*cell), float64(i*cell), float64(cell-1), float64(cell-1))
			dc.Fill()
		}
	}

	if caption != "" {
		face, err := captionFace()
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetRGB255(230, 230, 230)
		dc.DrawStringAnchored(caption, 4, float64(rows*cell)+captionHeight/2, 0, 0.5)
	}

	return dc.EncodePNG(w)
}

func captionFace() (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Caption describes a draft in one line for image exports.
func Caption(d *draft.Draft) string {
	s := d.Summary()
	return fmt.Sprintf("%d shafts  %d treadles  %dx%d", s.Shafts, s.Treadles, s.Threads, s.Picks)
}
