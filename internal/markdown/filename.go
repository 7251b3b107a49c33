package markdown

import (
	"strings"
	"unicode"
)

const (
	maxFilenameRunes = 50
	fallbackFilename = "untitled"
)

// Filename derives a file name from a title: reserved characters and
// control characters become underscores, spaces become underscores, and the
// stem is cut to 50 characters before ext is appended.
func Filename(title, ext string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`\/:*?"<>|`, r):
			return '_'
		case r == ' ':
			return '_'
		case unicode.IsControl(r) || unicode.IsSpace(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	stem = Truncate(stem, maxFilenameRunes)
	stem = strings.Trim(stem, ".")
	if stem == "" {
		stem = fallbackFilename
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return stem + ext
}
