package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Helper", "Sessions", "Total"}
	rows := [][]string{
		{"student", "2", "15"},
		{"robot", "10", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Helper   Sessions  Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "student         2     15" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "robot          10      3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"xx", ""}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "A   B" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "xx" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"日本", "1"}}, map[int]bool{1: true})
	if lines[1] != "日本  1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}
