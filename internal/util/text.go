// ABOUTME: Text helpers shared by retrieval and export
// ABOUTME: Truncation counts runes so multi-byte text is never split
package util

// Truncate returns at most maxRunes runes of s
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// Ellipsize shortens s to maxLen runes, adding "..." if truncated
func Ellipsize(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
