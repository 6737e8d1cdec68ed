// Package draft turns parsed WIF sections into a loom draft: dense threading,
// tie-up and treadling matrices plus per-thread and per-pick colors.
//
// Building is best effort. Missing sections give empty matrices, lines that
// do not parse are skipped and counted in [BuildStats], and unresolved colors
// fall back to [Fallback] red so that a bad file still renders.
package draft

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/weavesim/internal/wif"
)

const (
	SectionColorTable = "COLOR TABLE"
	SectionThreading  = "THREADING"
	SectionTieUp      = "TIEUP"
	SectionTreadling  = "TREADLING"
	SectionWarpColors = "WARP COLORS"
	SectionWeftColors = "WEFT COLORS"

	// ChannelMax is the top of the WIF color scale.
	ChannelMax = 999
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Fallback marks a thread or pick whose color could not be resolved.
var Fallback = RGB{R: 255, G: 0, B: 0}

// ColorTable maps a palette index to its color.
type ColorTable map[int]RGB

// BuildStats records how many lines (or tie-up shaft tokens) were ignored
// per section.
type BuildStats struct {
	Skipped map[string]int
}

// Total is the number of skipped lines across all sections.
func (s BuildStats) Total() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Draft is a loom draft built from WIF sections.
type Draft struct {
	Threading    Matrix
	TieUp        Matrix
	Treadling    Matrix
	ThreadColors []RGB
	RowColors    []RGB
	Palette      ColorTable
	Stats        BuildStats
}

// Summary is a compact description of the draft's dimensions.
type Summary struct {
	Shafts   int `json:"shafts"`
	Treadles int `json:"treadles"`
	Threads  int `json:"threads"`
	Picks    int `json:"picks"`
	Colors   int `json:"colors"`
	Skipped  int `json:"skipped"`
}

// Parse builds a draft directly from WIF text.
func Parse(text string) *Draft {
	return Build(wif.Parse(text))
}

// Build assembles a draft from parsed sections. It never fails.
func Build(sections wif.Sections) *Draft {
	b := &builder{stats: BuildStats{Skipped: make(map[string]int)}}

	d := &Draft{}
	d.Palette = b.colorTable(sections.Lines(SectionColorTable))
	d.Threading = b.threading(sections.Lines(SectionThreading))
	d.TieUp = b.tieUp(sections.Lines(SectionTieUp), d.Threading.Rows())
	d.Treadling = b.treadling(sections.Lines(SectionTreadling), d.TieUp.Cols())
	d.ThreadColors = b.colors(SectionWarpColors, sections.Lines(SectionWarpColors), d.Threading.Cols(), d.Palette)
	d.RowColors = b.colors(SectionWeftColors, sections.Lines(SectionWeftColors), d.Treadling.Rows(), d.Palette)
	d.Stats = b.stats

	if n := b.stats.Total(); n > 0 {
		logger().Warn("draft: skipped malformed lines", "count", n, "sections", b.stats.Skipped)
	}
	return d
}

// Summary reports the draft's dimensions and skipped line count.
func (d *Draft) Summary() Summary {
	return Summary{
		Shafts:   d.Threading.Rows(),
		Treadles: d.TieUp.Cols(),
		Threads:  d.Threading.Cols(),
		Picks:    d.Treadling.Rows(),
		Colors:   len(d.Palette),
		Skipped:  d.Stats.Total(),
	}
}

type builder struct {
	stats BuildStats
}

func (b *builder) skip(section, line string) {
	b.stats.Skipped[section]++
	logger().Debug("draft: skipping line", "section", section, "line", line)
}

// pair parses "a=b" where both sides are 1-based indices.
func (b *builder) pair(section, line string) (int, int, bool) {
	key, value, ok := wif.SplitKeyValue(line)
	if !ok {
		b.skip(section, line)
		return 0, 0, false
	}
	k, okK := index(key)
	v, okV := index(value)
	if !okK || !okV {
		b.skip(section, line)
		return 0, 0, false
	}
	return k, v, true
}

// index parses a 1-based index.
func index(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (b *builder) colorTable(lines []string) ColorTable {
	table := make(ColorTable, len(lines))
	for _, line := range lines {
		key, value, ok := wif.SplitKeyValue(line)
		if !ok {
			b.skip(SectionColorTable, line)
			continue
		}
		idx, err := strconv.Atoi(key)
		if err != nil {
			b.skip(SectionColorTable, line)
			continue
		}
		c, ok := parseColor(value)
		if !ok {
			b.skip(SectionColorTable, line)
			continue
		}
		table[idx] = c
	}
	return table
}

func parseColor(s string) (RGB, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, false
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, false
		}
		ch[i] = scaleChannel(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, true
}

// scaleChannel maps the 0..999 WIF scale onto 0..255.
func scaleChannel(v int) uint8 {
	if v < 0 {
		v = 0
	}
	if v > ChannelMax {
		v = ChannelMax
	}
	return uint8(math.Round(float64(v) * 255 / ChannelMax))
}

type entry struct{ key, value int }

func (b *builder) pairs(section string, lines []string) ([]entry, int, int) {
	entries := make([]entry, 0, len(lines))
	maxKey, maxValue := 0, 0
	for _, line := range lines {
		k, v, ok := b.pair(section, line)
		if !ok {
			continue
		}
		entries = append(entries, entry{k, v})
		maxKey = max(maxKey, k)
		maxValue = max(maxValue, v)
	}
	return entries, maxKey, maxValue
}

// threading lines are "thread=shaft"; rows are shafts, columns threads.
func (b *builder) threading(lines []string) Matrix {
	entries, maxThread, maxShaft := b.pairs(SectionThreading, lines)
	m := newMatrix(maxShaft, maxThread)
	for _, e := range entries {
		m.Set(e.value-1, e.key-1, true)
	}
	return m
}

// tieUp lines are "treadle=shaft,shaft,..."; rows are the threading's
// shafts, columns treadles.
func (b *builder) tieUp(lines []string, frames int) Matrix {
	type tie struct {
		treadle int
		shafts  []int
	}
	ties := make([]tie, 0, len(lines))
	treadles := 0

	for _, line := range lines {
		key, value, ok := wif.SplitKeyValue(line)
		if !ok {
			b.skip(SectionTieUp, line)
			continue
		}
		treadle, ok := index(key)
		if !ok {
			b.skip(SectionTieUp, line)
			continue
		}
		t := tie{treadle: treadle}
		if value != "" {
			for _, tok := range strings.Split(value, ",") {
				shaft, ok := index(tok)
				if !ok {
					b.skip(SectionTieUp, line)
					continue
				}
				t.shafts = append(t.shafts, shaft)
			}
		}
		ties = append(ties, t)
		treadles = max(treadles, treadle)
	}

	m := newMatrix(frames, treadles)
	for _, t := range ties {
		for _, shaft := range t.shafts {
			m.Set(shaft-1, t.treadle-1, true)
		}
	}
	return m
}

// treadling lines are "pick=treadle"; columns follow the tie-up.
func (b *builder) treadling(lines []string, treadles int) Matrix {
	entries, picks, _ := b.pairs(SectionTreadling, lines)
	m := newMatrix(picks, treadles)
	for _, e := range entries {
		m.Set(e.key-1, e.value-1, true)
	}
	return m
}

func (b *builder) colors(section string, lines []string, n int, palette ColorTable) []RGB {
	assigned := make(map[int]int, len(lines))
	for _, line := range lines {
		key, value, ok := wif.SplitKeyValue(line)
		if !ok {
			b.skip(section, line)
			continue
		}
		pos, ok := index(key)
		if !ok {
			b.skip(section, line)
			continue
		}
		ref, err := strconv.Atoi(value)
		if err != nil {
			b.skip(section, line)
			continue
		}
		assigned[pos-1] = ref
	}

	out := make([]RGB, n)
	for i := range out {
		out[i] = Fallback
		ref, ok := assigned[i]
		if !ok {
			continue
		}
		if c, ok := palette[ref]; ok {
			out[i] = c
		}
	}
	return out
}
