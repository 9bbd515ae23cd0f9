package logutil

import "unicode/utf8"

// Excerpt shortens s to at most maxRunes runes for log lines, marking the cut
// with "...". Provider output is often long and multi-byte.
func Excerpt(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
