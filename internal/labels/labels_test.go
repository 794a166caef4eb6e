package labels

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStripsClassIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	body := "0 Jacke\n1 Trinkflasche\n\n2 Sport Beutel\nMütze\n3 jacke\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load labels: %v", err)
	}
	want := []string{"Jacke", "Trinkflasche", "Sport Beutel", "Mütze"}
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i])
		}
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty labels file")
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	got, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("expected defaults, got error %v", err)
	}
	if len(got) != len(Defaults) {
		t.Fatalf("expected %d default labels, got %d", len(Defaults), len(got))
	}
}

func TestMatch(t *testing.T) {
	labels := []string{"Jacke", "Mütze"}
	if got, ok := Match(labels, "  jacke "); !ok || got != "Jacke" {
		t.Fatalf("expected Jacke, got %q %v", got, ok)
	}
	if got, ok := Match(labels, "MÜTZE"); !ok || got != "Mütze" {
		t.Fatalf("expected Mütze, got %q %v", got, ok)
	}
	for _, input := range []string{"", "Hose"} {
		if _, ok := Match(labels, input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}
