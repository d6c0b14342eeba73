package utils

import (
	"strings"
	"unicode"
)

const ellipsis = "..."

// TruncateText shortens s to at most n runes, cutting at a word boundary and ending in "...".
// Strings that already fit are returned unchanged.
func TruncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n <= len(ellipsis) {
		return ellipsis[:n]
	}
	cut := runes[:n-len(ellipsis)]
	// Back off to the last space when the cut lands inside a word
	if !unicode.IsSpace(runes[len(cut)]) {
		for i := len(cut) - 1; i > 0; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + ellipsis
}
