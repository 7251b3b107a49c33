package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize collapses every run of three or more newlines to two and trims
// the result. It is meant for a whole document, applied once.
func Normalize(s string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n"))
}

// Collapse folds all whitespace runs into single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
