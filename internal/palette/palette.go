// Package palette converts draft colors and computes how cloth dye fades
// with use.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/weavesim/internal/draft"
)

const (
	// BaseHue is the hue of a freshly dyed cloth, in degrees.
	BaseHue = 222.16
	// BaseLightness is held constant while the dye fades.
	BaseLightness = 0.5
)

// fadeRates is saturation lost per unit of use, in percent.
var fadeRates = map[string]float64{
	"wool": 2,
}

const defaultFadeRate = 1

// Saturation returns the dye saturation in [0, 100] after use duration t.
func Saturation(material string, t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	rate, ok := fadeRates[material]
	if !ok {
		rate = defaultFadeRate
	}
	return math.Max(0, 100-rate*t)
}

// Fade returns the point color of a cloth of the given material after use
// duration t.
func Fade(material string, t float64) colorful.Color {
	return colorful.Hsl(BaseHue, Saturation(material, t)/100, BaseLightness)
}

func FromDraft(c draft.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats a draft color as #rrggbb.
func Hex(c draft.RGB) string {
	return FromDraft(c).Hex()
}

// RGB255 converts back to a draft color, clamping out-of-gamut values.
func RGB255(c colorful.Color) draft.RGB {
	r, g, b := c.Clamped().RGB255()
	return draft.RGB{R: r, G: g, B: b}
}
