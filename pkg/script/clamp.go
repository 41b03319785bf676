package script

import "strings"

// continuationMarker is appended when a script had to be truncated.
const continuationMarker = "…"

// ClampWords bounds a script to at most max words. Text within budget is
// returned unchanged. Truncation happens on word boundaries only; trailing
// punctuation is stripped from the cut tail and the continuation marker is
// appended, so a non-empty input never clamps to an empty string.
func ClampWords(text string, max int) string {
	if max <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}

	clamped := strings.Join(words[:max], " ")
	clamped = strings.TrimRight(clamped, ",;:.")
	return clamped + continuationMarker
}

// WordCount reports the number of whitespace-separated words in a script.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
