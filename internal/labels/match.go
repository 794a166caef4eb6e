package labels

import "strings"

// Match finds the label equal to input, ignoring case and surrounding space.
// It returns the canonical spelling from labels.
func Match(labels []string, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	for _, label := range labels {
		if strings.EqualFold(label, input) {
			return label, true
		}
	}
	return "", false
}
