package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fundus/internal/idle"
)

type helperRow struct {
	key        int
	name       string
	count      int64
	power      int64
	cost       int64
	affordable bool
}

func helperRows(p *idle.Progress, catalog *idle.Catalog) []helperRow {
	helpers := catalog.Helpers()
	rows := make([]helperRow, 0, len(helpers))
	for i, h := range helpers {
		count := p.Count(h.ID)
		cost := h.Cost(count)
		rows = append(rows, helperRow{
			key:        i + 1,
			name:       h.Name,
			count:      count,
			power:      h.Power,
			cost:       cost,
			affordable: p.Balance >= cost,
		})
	}
	return rows
}

// renderHelperRows lays out helper rows in aligned columns at least minWidth wide.
func renderHelperRows(rows []helperRow, minWidth int) []string {
	cells := make([][4]string, len(rows))
	var widths [4]int
	for i, r := range rows {
		keyLabel := "   "
		if r.key <= 9 {
			keyLabel = fmt.Sprintf("[%d]", r.key)
		}
		cells[i] = [4]string{
			keyLabel + " " + r.name,
			fmt.Sprintf("x%d", r.count),
			fmt.Sprintf("+%s/s", humanize.Comma(r.power)),
			humanize.Comma(r.cost),
		}
		for c, cell := range cells[i] {
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	total := widths[0] + widths[1] + widths[2] + widths[3] + 6
	if total < minWidth {
		widths[0] += minWidth - total
	}

	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		line := runewidth.FillRight(cells[i][0], widths[0]) + "  " +
			runewidth.FillLeft(cells[i][1], widths[1]) + "  " +
			runewidth.FillLeft(cells[i][2], widths[2]) + "  " +
			runewidth.FillLeft(cells[i][3], widths[3])
		lines = append(lines, affordability(line, r.affordable))
	}
	return lines
}

func affordability(line string, affordable bool) string {
	if affordable {
		return affordStyle.Render(line)
	}
	return mutedStyle.Render(line)
}
