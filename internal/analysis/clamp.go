package analysis

import "strings"

// ClampWords bounds text to at most max words, appending an ellipsis when it
// truncates. Text below min is returned as-is rather than padded.
func ClampWords(text string, min, max int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}
	words := strings.Fields(trimmed)
	if len(words) <= max {
		return trimmed
	}
	return strings.Join(words[:max], " ") + "…"
}
