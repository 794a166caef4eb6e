package stats

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/fundus/internal/model"
)

// RenderItems prints found items, newest first as given.
func RenderItems(w io.Writer, category string, items []model.FoundItem, now time.Time) error {
	if len(items) == 0 {
		var err error
		if category == "" {
			_, err = fmt.Fprintln(w, "No items found.")
		} else {
			_, err = fmt.Fprintf(w, "No items found in category %q.\n", category)
		}
		return err
	}
	headers := []string{"ID", "Category", "Found", "", "Location", "Description", "Photo"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		photo := "-"
		if item.ImagePath != "" {
			photo = filepath.Base(item.ImagePath)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			item.Category,
			item.FoundAt.Local().Format("02.01.2006, 15:04"),
			humanize.RelTime(item.FoundAt, now, "ago", "from now"),
			orDash(item.Location),
			orDash(item.Description),
			photo,
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true})
}

// RenderCategoryCounts prints how many items each category holds.
func RenderCategoryCounts(w io.Writer, counts []model.CategoryCount) error {
	headers := []string{"Category", "Items"}
	rows := make([][]string, 0, len(counts))
	for _, cc := range counts {
		rows = append(rows, []string{cc.Category, fmt.Sprintf("%d", cc.Count)})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
