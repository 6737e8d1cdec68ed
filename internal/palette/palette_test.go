package palette

import (
	"math"
	"testing"

	"github.com/san-kum/weavesim/internal/draft"
)

func TestSaturation(t *testing.T) {
	tests := []struct {
		material string
		t, want  float64
	}{
		{"cotton", 0, 100},
		{"cotton", 30, 70},
		{"wool", 30, 40},
		{"wool", 80, 0},
		{"silk", 250, 0},
		{"denim", 10, 90},
		{"cotton", -5, 100},
	}

	for _, tt := range tests {
		if got := Saturation(tt.material, tt.t); got != tt.want {
			t.Errorf("Saturation(%q, %v) = %v, want %v", tt.material, tt.t, got, tt.want)
		}
	}
}

func TestFade(t *testing.T) {
	h, s, l := Fade("cotton", 0).Hsl()
	if math.Abs(h-BaseHue) > 0.01 || math.Abs(s-1) > 1e-6 || math.Abs(l-BaseLightness) > 1e-6 {
		t.Errorf("fresh dye: got hsl(%f, %f, %f)", h, s, l)
	}

	gray := RGB255(Fade("wool", 50))
	if gray.R != gray.G || gray.G != gray.B {
		t.Errorf("fully faded dye should be gray, got %+v", gray)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		c    draft.RGB
		want string
	}{
		{draft.Fallback, "#ff0000"},
		{draft.RGB{}, "#000000"},
		{draft.RGB{R: 18, G: 52, B: 86}, "#123456"},
	}

	for _, tt := range tests {
		if got := Hex(tt.c); got != tt.want {
			t.Errorf("Hex(%+v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestRGB255_RoundTrip(t *testing.T) {
	c := draft.RGB{R: 200, G: 100, B: 7}
	if got := RGB255(FromDraft(c)); got != c {
		t.Errorf("expected %+v, got %+v", c, got)
	}
}
