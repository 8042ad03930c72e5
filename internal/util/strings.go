// Package util provides shared utility functions used across the codebase.
package util

// TruncateString truncates a string to maxLen runes, adding "..." if
// truncated. Report tables truncate identifiers before styling, so no
// ANSI-aware variant is needed.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
