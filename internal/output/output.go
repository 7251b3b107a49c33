// Package output renders extracted documents and writes them to disk.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chat2md/internal/formatter"
	"chat2md/internal/markdown"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md2html = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Conversation renders one extracted document in every output format.
type Conversation struct {
	doc *markdown.Document
}

var _ formatter.Content = (*Conversation)(nil)

func NewConversation(doc *markdown.Document) *Conversation {
	return &Conversation{doc: doc}
}

// Filename returns the file name for the document in format.
func (c *Conversation) Filename(format string) string {
	return markdown.Filename(c.doc.FileStem(), formatter.Extension(format))
}

// ToMarkdown returns the document with its front matter.
func (c *Conversation) ToMarkdown() (string, error) {
	return c.doc.Markdown(), nil
}

// ToHTML renders the document body, without front matter, as a standalone
// HTML page.
func (c *Conversation) ToHTML() (string, error) {
	body, err := c.renderBody()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(c.doc.Title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// ToText returns the text content of the rendered document.
func (c *Conversation) ToText() (string, error) {
	body, err := c.renderBody()
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered HTML: %w", err)
	}
	return markdown.Normalize(doc.Text()), nil
}

type jsonDocument struct {
	Title    string             `json:"title"`
	URL      string             `json:"url,omitempty"`
	Parser   string             `json:"parser,omitempty"`
	Fields   map[string]string  `json:"fields,omitempty"`
	Preamble string             `json:"preamble,omitempty"`
	Sections []markdown.Section `json:"sections"`
}

func (c *Conversation) ToJSON() ([]byte, error) {
	out := jsonDocument{
		Title:    c.doc.Title,
		URL:      c.doc.URL,
		Preamble: c.doc.Preamble,
		Sections: c.doc.Sections,
	}
	if out.Sections == nil {
		out.Sections = []markdown.Section{}
	}
	if h := c.doc.Header; h != nil {
		out.Parser = h.Parser
		for _, f := range h.Fields {
			if out.Fields == nil {
				out.Fields = map[string]string{}
			}
			out.Fields[f.Key] = f.Value
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return b, nil
}

// ToCSV writes one row per section.
func (c *Conversation) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"index", "role", "heading", "markdown"}); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	for _, s := range c.doc.Sections {
		index := ""
		if s.Index > 0 {
			index = strconv.Itoa(s.Index)
		}
		if err := w.Write([]string{index, s.Role, s.Heading, s.Body}); err != nil {
			return "", fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}

func (c *Conversation) renderBody() (string, error) {
	bodyOnly := *c.doc
	bodyOnly.Header = nil
	var buf bytes.Buffer
	if err := md2html.Convert([]byte(bodyOnly.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render Markdown: %w", err)
	}
	return buf.String(), nil
}

// Save writes data to dir/name, creating dir when needed, and returns the
// written path.
func Save(dir, name, data string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("failed to write to file: %w", err)
	}
	return path, nil
}
