package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/weavesim/internal/draft"
	"github.com/san-kum/weavesim/internal/palette"
)

type DraftData struct {
	Summary      draft.Summary  `json:"summary"`
	Threading    []string       `json:"threading"`
	TieUp        []string       `json:"tieup"`
	Treadling    []string       `json:"treadling"`
	Drawdown     []string       `json:"drawdown"`
	ThreadColors []string       `json:"thread_colors"`
	RowColors    []string       `json:"row_colors"`
	Palette      map[int]string `json:"palette"`
	Skipped      map[string]int `json:"skipped,omitempty"`
}

// DraftJSON writes the draft's matrices as '#'/'.' rows and its colors as
// hex strings.
func DraftJSON(w io.Writer, d *draft.Draft) error {
	data := DraftData{
		Summary:      d.Summary(),
		Threading:    rows(d.Threading),
		TieUp:        rows(d.TieUp),
		Treadling:    rows(d.Treadling),
		Drawdown:     rows(d.Drawdown()),
		ThreadColors: hexes(d.ThreadColors),
		RowColors:    hexes(d.RowColors),
		Palette:      make(map[int]string, len(d.Palette)),
		Skipped:      d.Stats.Skipped,
	}
	for k, c := range d.Palette {
		data.Palette[k] = palette.Hex(c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func rows(m draft.Matrix) []string {
	out := make([]string, 0, m.Rows())
	for _, r := range m {
		b := make([]byte, len(r))
		for j, v := range r {
			if v {
				b[j] = '#'
			} else {
				b[j] = '.'
			}
		}
		out = append(out, string(b))
	}
	return out
}

func hexes(cs []draft.RGB) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = palette.Hex(c)
	}
	return out
}
