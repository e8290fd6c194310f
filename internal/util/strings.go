// Package util provides small string helpers shared across packages.
package util

// TruncateRunes returns at most maxRunes Unicode code points of s and
// reports whether anything was cut off. If maxRunes <= 0 the string is
// returned unchanged.
func TruncateRunes(s string, maxRunes int) (string, bool) {
	if maxRunes <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s, false
	}
	return string(runes[:maxRunes]), true
}
