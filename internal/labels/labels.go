// Package labels loads the category labels of the item classifier.
package labels

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults is used when no labels file is present.
var Defaults = []string{
	"Jacke",
	"Mütze",
	"Schal",
	"Handschuhe",
	"Trinkflasche",
	"Brotdose",
	"Federmappe",
	"Schlüssel",
	"Schuhe",
	"Sonstiges",
}

// Load reads one label per line. Lines may carry a leading class index ("0 Jacke").
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only labels file.
			_ = cerr
		}
	}()

	var out []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		label := parseLine(scanner.Text())
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("labels file is empty")
	}
	return out, nil
}

// LoadOrDefault loads labels from path, falling back to Defaults when the file does not exist.
func LoadOrDefault(path string) ([]string, error) {
	out, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), Defaults...), nil
		}
		return nil, err
	}
	return out, nil
}

func parseLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 2 {
		if _, err := strconv.Atoi(parts[0]); err == nil {
			return strings.TrimSpace(parts[1])
		}
	}
	return line
}
