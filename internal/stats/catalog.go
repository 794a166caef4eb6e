package stats

import (
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/fundus/internal/idle"
)

// RenderCatalog prints every helper with its income and the next preview costs.
func RenderCatalog(w io.Writer, catalog *idle.Catalog, preview int) error {
	if preview < 1 {
		preview = 1
	}
	headers := []string{"Helper", "Name", "Power/s", "Next costs"}
	rows := make([][]string, 0, catalog.Len()+1)
	for _, h := range catalog.Helpers() {
		rows = append(rows, []string{
			h.ID,
			h.Name,
			humanize.Comma(h.Power),
			costPreview(h.Cost, 0, preview),
		})
	}
	// Click upgrade costs are indexed by click power, which starts at 1.
	rows = append(rows, []string{
		idle.ClickUpgradeItem,
		"Click power +1",
		"-",
		costPreview(catalog.ClickUpgrade().Cost, 1, preview),
	})
	return writeTable(w, headers, rows, map[int]bool{2: true})
}

func costPreview(fn idle.CostFunc, from int64, n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, humanize.Comma(fn(from+int64(i))))
	}
	return strings.Join(parts, ", ")
}
