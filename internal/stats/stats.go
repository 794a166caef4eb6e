package stats

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/fundus/internal/idle"
	"github.com/verte-zerg/fundus/internal/model"
)

// SessionMetrics computes credits earned per minute of play.
func SessionMetrics(earned, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return float64(earned) / minutes
}

// RenderSummary prints a summary of stored game sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No game sessions found.")
		return err
	}
	var totalEarned, totalClicks, totalMs, best int64
	var bestRate float64
	for _, s := range sessions {
		totalEarned += s.Earned
		totalClicks += s.Clicks
		totalMs += s.DurationMs
		if s.FinalBalance > best {
			best = s.FinalBalance
		}
		if rate := SessionMetrics(s.Earned, s.DurationMs); rate > bestRate {
			bestRate = rate
		}
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Total earned: %s", humanize.Comma(totalEarned)),
		fmt.Sprintf("Total clicks: %s", humanize.Comma(totalClicks)),
		fmt.Sprintf("Best final balance: %s", humanize.Comma(best)),
		fmt.Sprintf("Avg credits/min: %.1f", SessionMetrics(totalEarned, totalMs)),
		fmt.Sprintf("Best credits/min: %.1f", bestRate),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBalanceCurve prints a sparkline of final balances sized to width (0 = terminal width).
func RenderBalanceCurve(w io.Writer, sessions []model.SessionAggregate, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.FinalBalance)
	}
	if _, err := fmt.Fprintln(w, "Final balance per session"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(shrinkSeries(values, width))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHelperTable prints helper ownership across sessions.
func RenderHelperTable(w io.Writer, aggs []model.HelperAggregate, catalog *idle.Catalog) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No helpers bought yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Helpers"); err != nil {
		return err
	}
	headers := []string{"Helper", "Name", "Sessions", "Total", "Max"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		name := "-"
		if catalog != nil {
			if h, ok := catalog.Lookup(agg.HelperID); ok {
				name = h.Name
			}
		}
		rows = append(rows, []string{
			agg.HelperID,
			name,
			fmt.Sprintf("%d", agg.Sessions),
			humanize.Comma(agg.Total),
			humanize.Comma(agg.Max),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true, 4: true})
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
