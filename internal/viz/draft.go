package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/weavesim/internal/draft"
	"github.com/san-kum/weavesim/internal/palette"
)

const cell = "██"

// RenderDraft draws the colored drawdown, two columns per thread so cells
// come out roughly square.
func RenderDraft(d *draft.Draft) string {
	styles := make(map[draft.RGB]lipgloss.Style)
	var b strings.Builder
	for _, row := range d.ColoredDrawdown() {
		for _, c := range row {
			st, ok := styles[c]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(c)))
				styles[c] = st
			}
			b.WriteString(st.Render(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DraftText is the uncolored drawdown: '#' raised, '.' lowered.
func DraftText(d *draft.Draft) string {
	return d.Drawdown().String()
}
