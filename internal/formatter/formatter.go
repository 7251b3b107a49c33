// Package formatter renders extracted content in the output formats the CLI
// supports.
package formatter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Content is something that can be rendered in every output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Formats lists the accepted format names.
var Formats = []string{"markdown", "html", "text", "json", "csv"}

func Format(content Content, format string) (string, error) {
	switch format {
	case "html":
		return content.ToHTML()
	case "text":
		return content.ToText()
	case "markdown":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// Valid reports whether format is one of Formats.
func Valid(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FromExtension infers a format from a file name, or returns "".
func FromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	case ".csv":
		return "csv"
	}
	return ""
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	switch format {
	case "html":
		return ".html"
	case "text":
		return ".txt"
	case "json":
		return ".json"
	case "csv":
		return ".csv"
	}
	return ".md"
}

// MediaType returns the MIME type of format, with charset for text types.
func MediaType(format string) string {
	switch format {
	case "html":
		return "text/html; charset=utf-8"
	case "text":
		return "text/plain; charset=utf-8"
	case "json":
		return "application/json"
	case "csv":
		return "text/csv; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}
